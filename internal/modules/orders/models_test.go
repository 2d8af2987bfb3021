package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, NormalizeStatus("approved"))
	assert.Equal(t, "in_process", NormalizeStatus("in_process"))
	assert.Equal(t, StatusRejected, NormalizeStatus("rejected"))
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []string{StatusCompleted, StatusRejected, StatusCancelled, StatusRefunded, StatusBack} {
		assert.True(t, IsTerminal(s), s)
	}
	for _, s := range []string{StatusPending, "in_process", "authorized", ""} {
		assert.False(t, IsTerminal(s), s)
	}
}

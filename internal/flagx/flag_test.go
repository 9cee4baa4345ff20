package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-c", "conf.json", "-x", "other"}
	got := FilterArgs(args, []string{"-c"})
	assert.Equal(t, []string{"-c", "conf.json"}, got)
}

func TestFilterArgs_JoinedValue(t *testing.T) {
	args := []string{"--config=conf.json", "-v"}
	got := FilterArgs(args, []string{"--config"})
	assert.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_FlagFollowedByFlag(t *testing.T) {
	args := []string{"-c", "-v"}
	got := FilterArgs(args, []string{"-c"})
	assert.Equal(t, []string{"-c"}, got)
}

func TestFilterArgs_NothingAllowed(t *testing.T) {
	got := FilterArgs([]string{"-a", "b"}, nil)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestJSONConfigFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cli", "-c", "my.json", "-d", "notes.db"}
	assert.Equal(t, "my.json", JSONConfigFlags())

	os.Args = []string{"cli", "-d", "notes.db"}
	assert.Equal(t, "", JSONConfigFlags())
}

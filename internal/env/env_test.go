package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("EMENDAS_TEST_STR", "file")
	t.Setenv("EMENDAS_TEST_INT", "12")
	t.Setenv("EMENDAS_TEST_BAD_INT", "doze")
	t.Setenv("EMENDAS_TEST_BOOL", "true")
	t.Setenv("EMENDAS_TEST_DUR", "45s")

	assert.Equal(t, "file", GetString("EMENDAS_TEST_STR", "memory"))
	assert.Equal(t, "memory", GetString("EMENDAS_TEST_MISSING", "memory"))
	assert.Equal(t, 12, GetInt("EMENDAS_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("EMENDAS_TEST_BAD_INT", 1))
	assert.True(t, GetBool("EMENDAS_TEST_BOOL", false))
	assert.Equal(t, 45*time.Second, GetDuration("EMENDAS_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetDuration("EMENDAS_TEST_MISSING", time.Second))
}

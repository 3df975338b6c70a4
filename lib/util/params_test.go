package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntParam(t *testing.T) {
	params := map[string]string{
		"good":     " 3 ",
		"zero":     "0",
		"negative": "-1",
		"garbage":  "two",
	}

	assert.Equal(t, 3, IntParam(params, "good", 2))
	assert.Equal(t, 2, IntParam(params, "zero", 2))
	assert.Equal(t, 2, IntParam(params, "negative", 2))
	assert.Equal(t, 2, IntParam(params, "garbage", 2))
	assert.Equal(t, 2, IntParam(params, "missing", 2))
}

func TestBoolParam(t *testing.T) {
	params := map[string]string{
		"on":      "true",
		"off":     "FALSE",
		"garbage": "maybe",
	}

	assert.True(t, BoolParam(params, "on", false))
	assert.False(t, BoolParam(params, "off", true))
	assert.True(t, BoolParam(params, "garbage", true))
	assert.False(t, BoolParam(params, "missing", false))
}

package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	env := map[string]string{"TMPDIR": "/var/tmp", "A": "1", "B": "2"}
	lookup := func(key string) string { return env[key] }

	testCases := []struct {
		description string
		input       string
		expect      string
	}{
		{description: "no expressions", input: "runtime: local", expect: "runtime: local"},
		{description: "single", input: "baseURL: ${env.TMPDIR}/fleet", expect: "baseURL: /var/tmp/fleet"},
		{description: "multiple", input: "${env.A}-${env.B}-${env.A}", expect: "1-2-1"},
		{description: "unset", input: "x=${env.NOTSET}-end", expect: "x=-end"},
		{description: "unterminated", input: "start ${env.A and ${env.Y} end", expect: "start ${env.A and  end"},
		{description: "empty key", input: "oops ${env.} done", expect: "oops  done"},
		{description: "invalid key keeps text", input: "${env.A-B}", expect: "${env.A-B}"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, expand(testCase.input, lookup), testCase.description)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FLEET_EVENTS", "/srv/events")
	assert.Equal(t, "baseURL: /srv/events", ExpandEnv("baseURL: ${env.FLEET_EVENTS}"))
}

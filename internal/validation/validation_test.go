package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePackageName(t *testing.T) {
	t.Parallel()

	valid := []string{"git", "fail2ban", "python3.11", "g++", "build-essential", "libssl-dev"}
	for _, name := range valid {
		assert.NoError(t, ValidatePackageName(name), name)
	}

	invalid := []string{"", "rm -rf /", "pkg;evil", "pkg`id`", "pkg$(id)", "-starts-with-dash", "etc/passwd"}
	for _, name := range invalid {
		assert.Error(t, ValidatePackageName(name), name)
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	valid := []string{"dev", "deploy", "ci-runner", "_svc", "a"}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), name)
	}

	invalid := []string{"", "Root", "1user", "user name", "user;evil", "averyveryverylongusernamethatexceedslimit"}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), name)
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePort(1))
	assert.NoError(t, ValidatePort(22))
	assert.NoError(t, ValidatePort(65535))

	assert.Error(t, ValidatePort(0))
	assert.Error(t, ValidatePort(-1))
	assert.Error(t, ValidatePort(65536))
}

func TestValidateToolName(t *testing.T) {
	t.Parallel()

	valid := []string{"node", "python", "go", "terraform", "ruby-3.2"}
	for _, name := range valid {
		assert.NoError(t, ValidateToolName(name), name)
	}

	invalid := []string{"", "Node", "tool name", "tool;evil"}
	for _, name := range invalid {
		assert.Error(t, ValidateToolName(name), name)
	}
}

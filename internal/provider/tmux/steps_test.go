package tmux

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
)

func TestConfigStep_Check_ExistingConfigSatisfied(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(ports.ExpandPath("~/.tmux.conf"), "# user's own config\n")

	s := NewConfigStep(fs)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestConfigStep_Apply_WritesDefaults(t *testing.T) {
	t.Parallel()

	path := ports.ExpandPath("~/.tmux.conf")
	fs := mocks.NewFileSystem()

	s := NewConfigStep(fs)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(ctx))

	content := fs.FileContent(path)
	assert.Contains(t, content, "set -g mouse on")
	assert.Contains(t, content, "set -g history-limit 50000")

	status, err = s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cirun/internal/adapters/shell"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/core/ports"
	"go.trai.ch/cirun/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var _ ports.Executor = (*shell.Executor)(nil)

func newExecutor(t *testing.T, opts ...shell.Option) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	return shell.NewExecutor(mocks.NewMockLogger(ctrl), opts...)
}

func TestExecutor_Execute_Output(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cmd := domain.NewCommand("sh", "-c", "echo line1; echo line2; echo oops >&2")

	err := newExecutor(t).Execute(context.Background(), cmd, nil, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "line1\nline2\n", stdout.String())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestExecutor_Execute_EnvironmentLayers(t *testing.T) {
	t.Setenv("CIRUN_TEST_SYS", "from-system")
	t.Setenv("CIRUN_TEST_OVERRIDE", "from-system")

	cmd := domain.NewCommand("sh", "-c", `echo "$CIRUN_TEST_SYS $CIRUN_TEST_OVERRIDE $CIRUN_TEST_CMD"`)
	cmd.Env = map[string]string{"CIRUN_TEST_CMD": "from-command"}

	var stdout bytes.Buffer
	err := newExecutor(t).Execute(context.Background(), cmd,
		[]string{"CIRUN_TEST_OVERRIDE=exported"}, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "from-system exported from-command\n", stdout.String())
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	t.Parallel()

	cmd := domain.NewCommand("sh", "-c", "exit 3")
	err := newExecutor(t).Execute(context.Background(), cmd, nil, io.Discard, io.Discard)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestExecutor_Execute_NotFound(t *testing.T) {
	t.Parallel()

	cmd := domain.NewCommand("cirun-definitely-not-a-binary")
	err := newExecutor(t).Execute(context.Background(), cmd, nil, io.Discard, io.Discard)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	t.Parallel()

	err := newExecutor(t).Execute(context.Background(), domain.Command{}, nil, io.Discard, io.Discard)
	assert.ErrorIs(t, err, domain.ErrEmptyCommand)
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newExecutor(t).Execute(ctx, domain.NewCommand("sleep", "5"), nil, io.Discard, io.Discard)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestExecutor_Execute_LogsWhenWritersNil(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info("hello")
	log.EXPECT().Info("partial")

	cmd := domain.NewCommand("sh", "-c", "echo hello; printf partial")
	err := shell.NewExecutor(log).Execute(context.Background(), cmd, nil, nil, io.Discard)
	require.NoError(t, err)
}

func TestExecutor_Execute_PTY(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	cmd := domain.NewCommand("sh", "-c", "echo out; echo err >&2")

	err := newExecutor(t, shell.WithPTY(true)).Execute(context.Background(), cmd, nil, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "out")
	assert.Contains(t, stdout.String(), "err")
}

func TestDryRunExecutor(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	exec := shell.NewDryRunExecutor(&out)

	cmd := domain.NewCommand("npx", "start-server-and-test", "start", "3000", "cypress run --record")
	require.NoError(t, exec.Execute(context.Background(), cmd, nil, nil, nil))

	assert.Equal(t, "+ npx start-server-and-test start 3000 'cypress run --record'\n", out.String())
}

func TestDryRunExecutor_PrefersStdout(t *testing.T) {
	t.Parallel()

	var fallback, stdout bytes.Buffer
	exec := shell.NewDryRunExecutor(&fallback)

	require.NoError(t, exec.Execute(context.Background(), domain.NewCommand("npm", "ci"), nil, &stdout, nil))

	assert.Empty(t, fallback.String())
	assert.Equal(t, "+ npm ci\n", stdout.String())
}

func TestDryRunExecutor_EmptyCommand(t *testing.T) {
	t.Parallel()

	err := shell.NewDryRunExecutor(io.Discard).Execute(context.Background(), domain.Command{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCommand)
}

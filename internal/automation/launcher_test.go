package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStarter struct {
	startFunc func(ctx context.Context, command []string) (int, error)
	calls     [][]string
}

func (m *mockStarter) Start(ctx context.Context, command []string) (int, error) {
	m.calls = append(m.calls, command)
	if m.startFunc != nil {
		return m.startFunc(ctx, command)
	}
	return 4242, nil
}

func TestLauncher(t *testing.T) {
	t.Run("Launches configured command", func(t *testing.T) {
		starter := &mockStarter{}
		l := NewLauncher(starter, []string{"acad.exe", "/nologo"}, nil)
		require.True(t, l.Enabled())
		require.NoError(t, l.Launch(context.Background()))
		assert.Equal(t, [][]string{{"acad.exe", "/nologo"}}, starter.calls)
	})

	t.Run("Disabled without command", func(t *testing.T) {
		starter := &mockStarter{}
		l := NewLauncher(starter, nil, nil)
		assert.False(t, l.Enabled())
		assert.ErrorIs(t, l.Launch(context.Background()), ErrNoLaunchCommand)
		assert.Empty(t, starter.calls)
	})

	t.Run("Propagates start failure", func(t *testing.T) {
		boom := errors.New("exec format error")
		starter := &mockStarter{startFunc: func(context.Context, []string) (int, error) { return 0, boom }}
		l := NewLauncher(starter, []string{"acad.exe"}, nil)
		assert.ErrorIs(t, l.Launch(context.Background()), boom)
	})

	t.Run("Panics on nil starter", func(t *testing.T) {
		assert.Panics(t, func() { NewLauncher(nil, nil, nil) })
	})
}

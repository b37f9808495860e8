package srv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedService struct {
	name string
	log  *[]string
}

func (s *recordedService) Start(ctx context.Context) error {
	return nil
}

func (s *recordedService) Shutdown(ctx context.Context) error {
	*s.log = append(*s.log, s.name)
	return nil
}

func TestShutdownServices_RunsCleanupsInRegistrationOrder(t *testing.T) {
	var order []string
	services := []Service{
		&recordedService{name: "store", log: &order},
		&recordedService{name: "server", log: &order},
		NewCleanup(func() error {
			order = append(order, "cleanup")
			return nil
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"store", "server", "cleanup"}, order)
}

func TestNewCleanup_StartIsNoOp(t *testing.T) {
	called := false
	c := NewCleanup(func() error {
		called = true
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	assert.False(t, called, "cleanup runs at shutdown, not at start")

	require.NoError(t, c.Shutdown(context.Background()))
	assert.True(t, called)
}

func TestNewCleanup_NilFunc(t *testing.T) {
	require.NoError(t, NewCleanup(nil).Shutdown(context.Background()))
}

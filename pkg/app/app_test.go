package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestNewWiresTheApplication(t *testing.T) {
	box := &testkit.Mailbox{}
	a := app.New(app.Options{DB: testkit.DB(t), Mailer: box, AdminEmail: "ops@shop.test", SyncEvents: true})
	t.Cleanup(a.Close)
	ctx := context.Background()

	require.NoError(t, a.Ping(ctx))
	tasks := a.Schedule.List()
	require.Len(t, tasks, 2)
	assert.Contains(t, tasks[0], "catalog:warm-cache")
	assert.Contains(t, tasks[1], "failed-jobs:prune")

	// a callback request flows through the listeners into a queued mail
	_, err := a.Services.Callbacks.Create(ctx, services.CallbackInput{Name: "Bo", Phone: "+100200300"})
	require.NoError(t, err)
	ok, err := a.Queue.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, box.To("ops@shop.test"), 1)
}

package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ErrSignedOut is returned by SyncOnLogin when there is no session to sync to.
var ErrSignedOut = errors.New("store: not signed in")

// list is the state machine shared by the three stores: a slice of T that
// is persisted locally for guests and mirrored from the server otherwise.
type list[T any] struct {
	name    string
	key     string
	ls      LocalStorage
	session Session

	mu      sync.RWMutex
	items   []T
	version uint64
}

func newList[T any](name, key string, ls LocalStorage, session Session) *list[T] {
	if ls == nil {
		ls = NewMemoryStorage()
	}
	return &list[T]{name: name, key: key, ls: ls, session: session}
}

func (l *list[T]) authenticated() bool {
	return l.session != nil && l.session.Authenticated()
}

func (l *list[T]) snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// load fills the list from local storage, or from fetch when signed in.
func (l *list[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error)) error {
	if l.authenticated() {
		got, err := fetch(ctx)
		if err != nil {
			return err
		}
		l.replace(got)
		return nil
	}
	var local []T
	if err := load(l.ls, l.key, &local); err != nil {
		return err
	}
	l.replace(local)
	return nil
}

func (l *list[T]) replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.version++
}

// mutate applies change at once. Guests persist the result; signed-in
// shoppers send it with remote and adopt the server's answer, or get the
// previous state back if the server refuses. A failed call only rolls back
// when no later mutation has landed in between.
func (l *list[T]) mutate(ctx context.Context, change func([]T) ([]T, error), remote func(context.Context) ([]T, error)) error {
	l.mu.Lock()
	prev := l.items
	next, err := change(slices.Clone(prev))
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.items = next
	l.version++
	v := l.version

	if !l.authenticated() {
		defer l.mu.Unlock()
		if err := save(l.ls, l.key, next); err != nil {
			l.items = prev
			return err
		}
		return nil
	}
	l.mu.Unlock()

	got, err := remote(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		if l.version == v {
			l.items = prev
		}
		logger.WithCtx(ctx).Warn(l.name+": server rejected change, rolled back", "error", err)
		return err
	}
	if l.version == v {
		l.items = got
	}
	return nil
}

// syncOnLogin hands the guest state to send and adopts what comes back.
// Local storage is cleared only once the server has accepted it.
func (l *list[T]) syncOnLogin(ctx context.Context, send func(context.Context, []T) ([]T, error)) error {
	if !l.authenticated() {
		return ErrSignedOut
	}
	var local []T
	if err := load(l.ls, l.key, &local); err != nil {
		return err
	}
	got, err := send(ctx, local)
	if err != nil {
		return err
	}
	l.replace(got)
	return l.ls.Remove(l.key)
}

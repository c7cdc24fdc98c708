// Package controllers holds the storefront HTTP handlers. They bind and
// validate input, call a service and write the envelope; business rules live
// in app/services.
package controllers

import (
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// ID reads a numeric route parameter. A malformed id answers 404.
func ID(c *ctx.Context, key string) (uint, bool) {
	id, ok := c.ParamUint(key)
	if !ok {
		c.NotFound()
	}
	return id, ok
}

// Reply writes data, or the error mapped by ctx.Fail.
func Reply(c *ctx.Context, data any, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(data)
}

// ReplyCreated is Reply with 201.
func ReplyCreated(c *ctx.Context, data any, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(data)
}

// ReplyPage writes a page of items with its meta block.
func ReplyPage[T any](c *ctx.Context, items []T, meta orm.Pagination, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.Paginated(items, meta)
}

// ReplyDeleted answers a successful destroy.
func ReplyDeleted(c *ctx.Context, err error) {
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Deleted")
}

package server

import (
	"github.com/duskdb/duskdb/internal/resp"
	"github.com/duskdb/duskdb/internal/storage"
)

// cmdContext carries one command invocation's arguments and a handle to the
// shared keyspace store.
type cmdContext struct {
	args    []resp.Value
	storage *storage.Storage
}

// command is anything the engine's registry can dispatch a parsed argument
// vector to.
type command interface {
	execute(ctx *cmdContext) resp.Value
}

// commandFunc adapts a plain function to the command interface.
type commandFunc func(ctx *cmdContext) resp.Value

func (c commandFunc) execute(ctx *cmdContext) resp.Value {
	return c(ctx)
}

// argString returns the i'th argument as a string. Callers must bounds-check
// with len(ctx.args) first.
func argString(ctx *cmdContext, i int) string {
	return string(ctx.args[i].String)
}

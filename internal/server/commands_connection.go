package server

import (
	"strings"

	"github.com/duskdb/duskdb/internal/resp"
)

// ping replies PONG, or echoes its single optional argument.
func ping(ctx *cmdContext) resp.Value {
	switch len(ctx.args) {
	case 0:
		return resp.MakeSimpleString("PONG")
	case 1:
		return resp.MakeBulkString(argString(ctx, 0))
	default:
		return resp.MakeErrorWrongNumberOfArguments("PING")
	}
}

// echo replies with its single argument, unchanged.
func echo(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("ECHO")
	}
	return resp.MakeBulkString(argString(ctx, 0))
}

// cmd implements COMMAND, COMMAND DOCS, and COMMAND COUNT.
func cmd(ctx *cmdContext) resp.Value {
	if len(ctx.args) == 0 {
		return getAllCommands()
	}

	switch strings.ToUpper(argString(ctx, 0)) {
	case "DOCS":
		return getCommandsDocs(ctx.args[1:])
	case "COUNT":
		return resp.MakeInteger(int64(len(commandRegistry)))
	default:
		return getAllCommands()
	}
}

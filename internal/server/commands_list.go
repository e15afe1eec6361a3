package server

import (
	"strconv"

	"github.com/duskdb/duskdb/internal/resp"
)

func lpush(ctx *cmdContext) resp.Value {
	if len(ctx.args) < 2 {
		return resp.MakeErrorWrongNumberOfArguments("LPUSH")
	}
	n, err := (*ctx.storage).LPush(argString(ctx, 0), listArgValues(ctx)...)
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(n)
}

func rpush(ctx *cmdContext) resp.Value {
	if len(ctx.args) < 2 {
		return resp.MakeErrorWrongNumberOfArguments("RPUSH")
	}
	n, err := (*ctx.storage).RPush(argString(ctx, 0), listArgValues(ctx)...)
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(n)
}

func listArgValues(ctx *cmdContext) [][]byte {
	values := make([][]byte, len(ctx.args)-1)
	for i, v := range ctx.args[1:] {
		values[i] = v.String
	}
	return values
}

func lpop(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("LPOP")
	}
	v, ok, err := (*ctx.storage).LPop(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(string(v))
}

func rpop(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("RPOP")
	}
	v, ok, err := (*ctx.storage).RPop(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(string(v))
}

func llen(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("LLEN")
	}
	n, err := (*ctx.storage).LLen(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(n)
}

func lget(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("LGET")
	}
	items, err := (*ctx.storage).LGet(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeArray(bulkStringArray(items))
}

// lrange supports tail-relative indices and clamps the resolved range to
// [0, n-1], returning an empty array for an inverted range.
func lrange(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 3 {
		return resp.MakeErrorWrongNumberOfArguments("LRANGE")
	}
	start, err := strconv.ParseInt(argString(ctx, 1), 10, 64)
	if err != nil {
		return resp.MakeError("ERR value is not an integer or out of range")
	}
	stop, err := strconv.ParseInt(argString(ctx, 2), 10, 64)
	if err != nil {
		return resp.MakeError("ERR value is not an integer or out of range")
	}

	items, err := (*ctx.storage).LGet(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}

	n := int64(len(items))
	start = clampListBound(start, n)
	stop = clampListBound(stop, n)
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return resp.MakeArray(nil)
	}

	return resp.MakeArray(bulkStringArray(items[start : stop+1]))
}

func clampListBound(i, n int64) int64 {
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	return i
}

func bulkStringArray(items [][]byte) []resp.Value {
	vals := make([]resp.Value, len(items))
	for i, v := range items {
		vals[i] = resp.MakeBulkString(string(v))
	}
	return vals
}

func lrem(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 3 {
		return resp.MakeErrorWrongNumberOfArguments("LREM")
	}
	count, err := strconv.ParseInt(argString(ctx, 1), 10, 64)
	if err != nil {
		return resp.MakeError("ERR value is not an integer or out of range")
	}
	n, err := (*ctx.storage).LRem(argString(ctx, 0), count, ctx.args[2].String)
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(n)
}

func lindex(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 2 {
		return resp.MakeErrorWrongNumberOfArguments("LINDEX")
	}
	idx, err := strconv.ParseInt(argString(ctx, 1), 10, 64)
	if err != nil {
		return resp.MakeError("ERR value is not an integer or out of range")
	}
	v, ok, err := (*ctx.storage).LIndex(argString(ctx, 0), idx)
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(string(v))
}

func lset(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 3 {
		return resp.MakeErrorWrongNumberOfArguments("LSET")
	}
	idx, err := strconv.ParseInt(argString(ctx, 1), 10, 64)
	if err != nil {
		return resp.MakeError("ERR value is not an integer or out of range")
	}
	if err := (*ctx.storage).LSet(argString(ctx, 0), idx, ctx.args[2].String); err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeSimpleString("OK")
}

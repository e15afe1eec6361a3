package server

import "github.com/duskdb/duskdb/internal/resp"

func hset(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 3 {
		return resp.MakeErrorWrongNumberOfArguments("HSET")
	}
	if err := (*ctx.storage).HSet(argString(ctx, 0), argString(ctx, 1), ctx.args[2].String); err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(1)
}

func hget(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 2 {
		return resp.MakeErrorWrongNumberOfArguments("HGET")
	}
	v, ok, err := (*ctx.storage).HGet(argString(ctx, 0), argString(ctx, 1))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(string(v))
}

func hdel(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 2 {
		return resp.MakeErrorWrongNumberOfArguments("HDEL")
	}
	ok, err := (*ctx.storage).HDel(argString(ctx, 0), argString(ctx, 1))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if ok {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func hexists(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 2 {
		return resp.MakeErrorWrongNumberOfArguments("HEXISTS")
	}
	ok, err := (*ctx.storage).HExists(argString(ctx, 0), argString(ctx, 1))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if ok {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func hgetall(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("HGETALL")
	}
	m, err := (*ctx.storage).HGetAll(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	vals := make([]resp.Value, 0, len(m)*2)
	for field, value := range m {
		vals = append(vals, resp.MakeBulkString(field), resp.MakeBulkString(string(value)))
	}
	return resp.MakeArray(vals)
}

func hkeys(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("HKEYS")
	}
	fields, err := (*ctx.storage).HKeys(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	vals := make([]resp.Value, len(fields))
	for i, f := range fields {
		vals[i] = resp.MakeBulkString(f)
	}
	return resp.MakeArray(vals)
}

func hvals(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("HVALS")
	}
	values, err := (*ctx.storage).HVals(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeArray(bulkStringArray(values))
}

func hlen(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("HLEN")
	}
	n, err := (*ctx.storage).HLen(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(n)
}

func hmset(ctx *cmdContext) resp.Value {
	if len(ctx.args) < 3 || len(ctx.args)%2 != 1 {
		return resp.MakeErrorWrongNumberOfArguments("HMSET")
	}
	pairs := make(map[string][]byte, (len(ctx.args)-1)/2)
	for i := 1; i < len(ctx.args); i += 2 {
		pairs[argString(ctx, i)] = ctx.args[i+1].String
	}
	if err := (*ctx.storage).HMSet(argString(ctx, 0), pairs); err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeSimpleString("OK")
}

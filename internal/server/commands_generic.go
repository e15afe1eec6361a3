package server

import (
	"strconv"
	"time"

	"github.com/duskdb/duskdb/internal/resp"
	"github.com/duskdb/duskdb/internal/storage"
)

// del removes each named key, returning the count actually removed. UNLINK
// is registered as an alias: this server has no separate reclamation path
// to make the two commands behave differently.
func del(ctx *cmdContext) resp.Value {
	if len(ctx.args) < 1 {
		return resp.MakeErrorWrongNumberOfArguments("DEL")
	}
	var removed int64
	for i := range ctx.args {
		if (*ctx.storage).Delete(argString(ctx, i)) {
			removed++
		}
	}
	return resp.MakeInteger(removed)
}

func flushAll(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 0 {
		return resp.MakeErrorWrongNumberOfArguments("FLUSHALL")
	}
	(*ctx.storage).FlushAll()
	return resp.MakeSimpleString("OK")
}

func keysCmd(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 0 {
		return resp.MakeErrorWrongNumberOfArguments("KEYS")
	}
	ks := (*ctx.storage).Keys()
	vals := make([]resp.Value, len(ks))
	for i, k := range ks {
		vals[i] = resp.MakeBulkString(k)
	}
	return resp.MakeArray(vals)
}

func typeCmd(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("TYPE")
	}
	t := (*ctx.storage).Type(argString(ctx, 0))
	return resp.MakeSimpleString(t.String())
}

func expireCmd(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 2 {
		return resp.MakeErrorWrongNumberOfArguments("EXPIRE")
	}
	secs, err := strconv.ParseInt(argString(ctx, 1), 10, 64)
	if err != nil {
		return resp.MakeError("ERR value is not an integer or out of range")
	}
	if (*ctx.storage).Expire(argString(ctx, 0), time.Duration(secs)*time.Second) {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

// ttl reports the remaining lifetime in whole seconds, rounded up so that a
// key set with "EX 1" still reports 1 immediately after the call.
func ttl(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("TTL")
	}
	d, status := (*ctx.storage).TTL(argString(ctx, 0))
	switch status {
	case storage.ExpNotFound:
		return resp.MakeInteger(-2)
	case storage.ExpNoTimeout:
		return resp.MakeInteger(-1)
	default:
		return resp.MakeInteger(ceilSeconds(d))
	}
}

func pttl(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("PTTL")
	}
	d, status := (*ctx.storage).TTL(argString(ctx, 0))
	switch status {
	case storage.ExpNotFound:
		return resp.MakeInteger(-2)
	case storage.ExpNoTimeout:
		return resp.MakeInteger(-1)
	default:
		return resp.MakeInteger(d.Milliseconds())
	}
}

func persist(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("PERSIST")
	}
	if (*ctx.storage).Persist(argString(ctx, 0)) {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func renameCmd(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 2 {
		return resp.MakeErrorWrongNumberOfArguments("RENAME")
	}
	if !(*ctx.storage).Rename(argString(ctx, 0), argString(ctx, 1)) {
		return resp.MakeError("ERR no such key")
	}
	return resp.MakeSimpleString("OK")
}

func ceilSeconds(d time.Duration) int64 {
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return int64(secs)
}

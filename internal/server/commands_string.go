package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/duskdb/duskdb/internal/resp"
	"github.com/duskdb/duskdb/internal/storage"
)

// get returns key's string value, or nil if absent, expired, or not a
// string (the latter surfaces as WRONGTYPE).
func get(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("GET")
	}
	v, ok, err := (*ctx.storage).Get(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(string(v))
}

// set implements SET key value with the EX/PX/EXAT/PXAT/NX/XX/KEEPTTL
// modifiers, enforcing the same mutual-exclusion rules the test suite
// exercises: NX and XX are exclusive, and at most one TTL clause may apply.
func set(ctx *cmdContext) resp.Value {
	args := ctx.args
	if len(args) < 2 {
		return resp.MakeErrorWrongNumberOfArguments("SET")
	}

	key := argString(ctx, 0)
	value := ctx.args[1].String

	var opts storage.SetOptions
	hasTTL := false

	i := 2
	for i < len(args) {
		switch strings.ToUpper(argString(ctx, i)) {
		case "NX":
			if opts.XX {
				return resp.MakeError("ERR syntax error: NX cannot use with XX")
			}
			opts.NX = true
			i++
		case "XX":
			if opts.NX {
				return resp.MakeError("ERR syntax error: XX cannot use with NX")
			}
			opts.XX = true
			i++
		case "KEEPTTL":
			if hasTTL {
				return resp.MakeError("ERR syntax error: TTL already specified")
			}
			opts.KeepTTL = true
			hasTTL = true
			i++
		case "EX", "PX", "EXAT", "PXAT":
			tok := strings.ToUpper(argString(ctx, i))
			if hasTTL {
				return resp.MakeError("ERR syntax error: TTL already specified")
			}
			if i+1 >= len(args) {
				return resp.MakeError("ERR syntax error")
			}
			n, err := strconv.ParseInt(argString(ctx, i+1), 10, 64)
			if err != nil {
				return resp.MakeError("ERR value TTL is not integer or out of range")
			}
			switch tok {
			case "EX":
				opts.TTL = time.Duration(n) * time.Second
			case "PX":
				opts.TTL = time.Duration(n) * time.Millisecond
			case "EXAT":
				opts.TTL = time.Until(time.Unix(n, 0))
			case "PXAT":
				opts.TTL = time.Until(time.UnixMilli(n))
			}
			hasTTL = true
			i += 2
		default:
			return resp.MakeError("ERR syntax error with command SET")
		}
	}

	ok, err := (*ctx.storage).Set(key, value, opts)
	if err != nil {
		return resp.MakeError(err.Error())
	}
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeSimpleString("OK")
}

// incrCmd parses key's value as a base-10 integer, increments it, and
// re-stores it as text.
func incrCmd(ctx *cmdContext) resp.Value {
	if len(ctx.args) != 1 {
		return resp.MakeErrorWrongNumberOfArguments("INCR")
	}
	n, err := (*ctx.storage).Incr(argString(ctx, 0))
	if err != nil {
		return resp.MakeError(err.Error())
	}
	return resp.MakeInteger(n)
}

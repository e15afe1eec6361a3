package server

import (
	"strings"

	"github.com/duskdb/duskdb/internal/resp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

type commandMetadata struct {
	arity    int      // Arity includes the command name itself
	flags    []string // read, write, fast, denyoom, etc
	firstKey int      // 1-based index of the first key
	lastKey  int      // 1-based index of the last key
	step     int      // Step count for finding keys
}

var (
	commandRegistry = map[string]commandMetadata{
		"PING":     {-1, []string{"fast", "stale"}, 0, 0, 0},
		"ECHO":     {2, []string{"fast"}, 0, 0, 0},
		"GET":      {2, []string{"readonly", "fast"}, 1, 1, 1},
		"SET":      {-3, []string{"write", "denyoom"}, 1, 1, 1},
		"DEL":      {-2, []string{"write"}, 1, -1, 1},
		"UNLINK":   {-2, []string{"write"}, 1, -1, 1},
		"FLUSHALL": {1, []string{"write"}, 0, 0, 0},
		"KEYS":     {1, []string{"readonly"}, 0, 0, 0},
		"TYPE":     {2, []string{"readonly", "fast"}, 1, 1, 1},
		"EXPIRE":   {3, []string{"write", "fast"}, 1, 1, 1},
		"TTL":      {2, []string{"readonly", "fast"}, 1, 1, 1},
		"PTTL":     {2, []string{"readonly", "fast"}, 1, 1, 1},
		"PERSIST":  {2, []string{"write", "fast"}, 1, 1, 1},
		"RENAME":   {3, []string{"write"}, 1, 2, 1},
		"INCR":     {2, []string{"write", "denyoom", "fast"}, 1, 1, 1},
		"LPUSH":    {-3, []string{"write", "denyoom"}, 1, 1, 1},
		"RPUSH":    {-3, []string{"write", "denyoom"}, 1, 1, 1},
		"LPOP":     {2, []string{"write", "fast"}, 1, 1, 1},
		"RPOP":     {2, []string{"write", "fast"}, 1, 1, 1},
		"LLEN":     {2, []string{"readonly", "fast"}, 1, 1, 1},
		"LGET":     {2, []string{"readonly"}, 1, 1, 1},
		"LRANGE":   {4, []string{"readonly"}, 1, 1, 1},
		"LREM":     {4, []string{"write"}, 1, 1, 1},
		"LINDEX":   {3, []string{"readonly"}, 1, 1, 1},
		"LSET":     {4, []string{"write", "denyoom"}, 1, 1, 1},
		"HSET":     {4, []string{"write", "denyoom", "fast"}, 1, 1, 1},
		"HGET":     {3, []string{"readonly", "fast"}, 1, 1, 1},
		"HDEL":     {3, []string{"write", "fast"}, 1, 1, 1},
		"HEXISTS":  {3, []string{"readonly", "fast"}, 1, 1, 1},
		"HGETALL":  {2, []string{"readonly"}, 1, 1, 1},
		"HKEYS":    {2, []string{"readonly"}, 1, 1, 1},
		"HVALS":    {2, []string{"readonly"}, 1, 1, 1},
		"HLEN":     {2, []string{"readonly", "fast"}, 1, 1, 1},
		"HMSET":    {-4, []string{"write", "denyoom"}, 1, 1, 1},
		"SAVE":     {1, []string{"admin"}, 0, 0, 0},
		"BGSAVE":   {1, []string{"admin"}, 0, 0, 0},
		"COMMAND":  {-1, []string{"random", "loading", "stale"}, 0, 0, 0},
	}
)

// commandDoc stores a description for the command
type commandDoc struct {
	summary    string
	complexity string
	group      string
	since      string
}

// commandDocsRegistry documentation registry
var commandDocsRegistry = map[string]commandDoc{
	"PING": {
		summary:    "Ping the server.",
		complexity: "O(1)",
		group:      "connection",
		since:      "1.0.0",
	},
	"GET": {
		summary:    "Get the value of a key.",
		complexity: "O(1)",
		group:      "string",
		since:      "1.0.0",
	},
	"SET": {
		summary:    "Set the string value of a key.",
		complexity: "O(1)",
		group:      "string",
		since:      "1.0.0",
	},
	"DEL": {
		summary:    "Delete a key.",
		complexity: "O(N) where N is the number of keys that will be removed.",
		group:      "generic",
		since:      "1.0.0",
	},
	"TTL": {
		summary:    "Get the time to live for a key in seconds.",
		complexity: "O(1)",
		group:      "generic",
		since:      "1.0.0",
	},
	"PTTL": {
		summary:    "Get the time to live for a key in milliseconds.",
		complexity: "O(1)",
		group:      "generic",
		since:      "1.0.0",
	},
	"PERSIST": {
		summary:    "Remove the expiration from a key.",
		complexity: "O(1)",
		group:      "generic",
		since:      "1.0.0",
	},
	"COMMAND": {
		summary:    "Get array of command details.",
		complexity: "O(N) where N is the number of commands to look up.",
		group:      "server",
		since:      "1.0.0",
	},
	"ECHO": {
		summary:    "Echo the given string.",
		complexity: "O(1)",
		group:      "connection",
		since:      "1.0.0",
	},
	"UNLINK": {
		summary:    "Delete a key, alias of DEL.",
		complexity: "O(N) where N is the number of keys that will be removed.",
		group:      "generic",
		since:      "1.0.0",
	},
	"FLUSHALL": {
		summary:    "Remove all keys from the keyspace.",
		complexity: "O(N)",
		group:      "generic",
		since:      "1.0.0",
	},
	"KEYS": {
		summary:    "Return all keys in the keyspace.",
		complexity: "O(N)",
		group:      "generic",
		since:      "1.0.0",
	},
	"TYPE": {
		summary:    "Determine the type stored at key.",
		complexity: "O(1)",
		group:      "generic",
		since:      "1.0.0",
	},
	"EXPIRE": {
		summary:    "Set a key's time to live in seconds.",
		complexity: "O(1)",
		group:      "generic",
		since:      "1.0.0",
	},
	"RENAME": {
		summary:    "Rename a key.",
		complexity: "O(1)",
		group:      "generic",
		since:      "1.0.0",
	},
	"INCR": {
		summary:    "Increment the integer value of a key by one.",
		complexity: "O(1)",
		group:      "string",
		since:      "1.0.0",
	},
	"LPUSH": {
		summary:    "Prepend one or multiple values to a list.",
		complexity: "O(1) for each value pushed.",
		group:      "list",
		since:      "1.0.0",
	},
	"RPUSH": {
		summary:    "Append one or multiple values to a list.",
		complexity: "O(1) for each value pushed.",
		group:      "list",
		since:      "1.0.0",
	},
	"LPOP": {
		summary:    "Remove and get the first element in a list.",
		complexity: "O(1)",
		group:      "list",
		since:      "1.0.0",
	},
	"RPOP": {
		summary:    "Remove and get the last element in a list.",
		complexity: "O(1)",
		group:      "list",
		since:      "1.0.0",
	},
	"LLEN": {
		summary:    "Get the length of a list.",
		complexity: "O(1)",
		group:      "list",
		since:      "1.0.0",
	},
	"LGET": {
		summary:    "Get the full contents of a list.",
		complexity: "O(N)",
		group:      "list",
		since:      "1.0.0",
	},
	"LRANGE": {
		summary:    "Get a range of elements from a list.",
		complexity: "O(S+N)",
		group:      "list",
		since:      "1.0.0",
	},
	"LREM": {
		summary:    "Remove elements from a list.",
		complexity: "O(N)",
		group:      "list",
		since:      "1.0.0",
	},
	"LINDEX": {
		summary:    "Get an element from a list by its index.",
		complexity: "O(N)",
		group:      "list",
		since:      "1.0.0",
	},
	"LSET": {
		summary:    "Set the value of an element in a list by its index.",
		complexity: "O(N)",
		group:      "list",
		since:      "1.0.0",
	},
	"HSET": {
		summary:    "Set the value of a hash field.",
		complexity: "O(1)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HGET": {
		summary:    "Get the value of a hash field.",
		complexity: "O(1)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HDEL": {
		summary:    "Delete a hash field.",
		complexity: "O(1)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HEXISTS": {
		summary:    "Determine if a hash field exists.",
		complexity: "O(1)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HGETALL": {
		summary:    "Get all fields and values in a hash.",
		complexity: "O(N)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HKEYS": {
		summary:    "Get all fields in a hash.",
		complexity: "O(N)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HVALS": {
		summary:    "Get all values in a hash.",
		complexity: "O(N)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HLEN": {
		summary:    "Get the number of fields in a hash.",
		complexity: "O(1)",
		group:      "hash",
		since:      "1.0.0",
	},
	"HMSET": {
		summary:    "Set multiple hash fields at once.",
		complexity: "O(N)",
		group:      "hash",
		since:      "1.0.0",
	},
	"SAVE": {
		summary:    "Synchronously save the keyspace to disk.",
		complexity: "O(N)",
		group:      "server",
		since:      "1.0.0",
	},
	"BGSAVE": {
		summary:    "Asynchronously save the keyspace to disk.",
		complexity: "O(N)",
		group:      "server",
		since:      "1.0.0",
	},
}

func makeFlagsArray(flags []string) resp.Value {
	vals := make([]resp.Value, len(flags))
	for i, f := range flags {
		vals[i] = resp.MakeSimpleString(f)
	}
	return resp.MakeArray(vals)
}

func makeInfoCmdArray(name string) []resp.Value {
	return []resp.Value{
		resp.MakeBulkString(name),
		resp.MakeInteger(int64(commandRegistry[name].arity)),
		makeFlagsArray(commandRegistry[name].flags),
		resp.MakeInteger(int64(commandRegistry[name].firstKey)),
		resp.MakeInteger(int64(commandRegistry[name].lastKey)),
		resp.MakeInteger(int64(commandRegistry[name].step)),
	}
}

func getAllCommands() resp.Value {
	cmdArray := make([]resp.Value, 0, len(commandRegistry))
	for name := range commandRegistry {
		details := makeInfoCmdArray(name)
		cmdArray = append(cmdArray, resp.MakeArray(details))
	}
	return resp.MakeArray(cmdArray)
}

// getCommandsDocs returns documentation for specified commands or all commands
// Format: [Name, [Summary, val, Since, val...], Name, [...]]
func getCommandsDocs(args []resp.Value) resp.Value {
	var targets []string

	if len(args) == 0 {
		targets = make([]string, 0, len(commandDocsRegistry))
		for name := range commandDocsRegistry {
			targets = append(targets, name)
		}
	} else {
		targets = make([]string, 0, len(args))
		for _, arg := range args {
			targets = append(targets, strings.ToUpper(string(arg.String)))
		}
	}

	result := make([]resp.Value, 0, len(targets)*2)

	for _, name := range targets {
		doc, ok := commandDocsRegistry[name]
		if !ok {
			continue
		}

		result = append(result, resp.MakeBulkString(name))

		props := []resp.Value{
			resp.MakeBulkString("summary"),
			resp.MakeBulkString(doc.summary),
			resp.MakeBulkString("since"),
			resp.MakeBulkString(doc.since),
			resp.MakeBulkString("group"),
			resp.MakeBulkString(titleCaser.String(doc.group)),
			resp.MakeBulkString("complexity"),
			resp.MakeBulkString(doc.complexity),
		}

		result = append(result, resp.MakeArray(props))
	}

	return resp.MakeArray(result)
}

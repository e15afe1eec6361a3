package server

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/duskdb/duskdb/internal/config"
	"github.com/duskdb/duskdb/internal/persistence"
	"github.com/duskdb/duskdb/internal/resp"
	"github.com/duskdb/duskdb/internal/storage"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine coordinates the execution of commands and manages the background tasks of the repository
type Engine struct {
	commands   map[string]command // Registry of available commands (the key is the command name in uppercase)
	storage    *storage.Storage   // Interface to the underlying KV storage
	cfg        *config.Config     // Configuration engine
	stopGC     chan struct{}      // Channel for the background GC stop signal
	stopOnce   sync.Once          // Ensures that the stop happens only once
	aof        *persistence.AOF   // AOF instance
	rdb        *persistence.RDB   // RDB instance
	saving     atomic.Bool        // true while a snapshot save is in flight
	gcInterval atomic.Int64       // current GC tick period, in nanoseconds; live-reloadable
	logger     *zap.Logger
}

// NewEngine initializes the engine, registers the basic commands, and
// if enabled in the config, starts background cleanup of outdated keys
func NewEngine(s storage.Storage, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	engine := Engine{
		commands: make(map[string]command),
		storage:  &s,
		cfg:      cfg,
		stopGC:   make(chan struct{}),
		logger:   logger,
	}
	engine.gcInterval.Store(int64(cfg.GC.Interval))
	engine.registerBasicCommand()

	if cfg.Persistence.AOF.Enabled {
		aof, err := persistence.NewAOF(
			cfg.Persistence.AOF.Filename,
			cfg.Persistence.AOF.Fsync,
			logger,
		)
		if err != nil {
			return nil, err
		}
		engine.aof = aof

		// Restore existing AOF
		engine.restoreAOF()
	}

	if cfg.Persistence.RDB.Enabled {
		engine.rdb = persistence.NewRDB(cfg.Persistence.RDB.Filename, logger)

		if !cfg.Persistence.AOF.Enabled {
			if err := engine.rdb.Load(s); err != nil {
				logger.Error("Failed to load RDB", zap.Error(err))
			}
		}

		if cfg.Persistence.RDB.Interval != "" {
			go engine.startAutoSave(cfg.Persistence.RDB.Interval)
		}
	}

	if cfg.GC.Enabled {
		go engine.startGCLoop()
	}

	return &engine, nil
}

func (e *Engine) startAutoSave(intervalStr string) {
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		e.logger.Error("Invalid RDB interval", zap.Error(err))
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.snapshotOnce()
		case <-e.stopGC:
			return
		}
	}
}

// snapshotOnce saves an RDB snapshot unless one is already in flight,
// guarding against a slow save overlapping with the next tick.
func (e *Engine) snapshotOnce() {
	if !e.saving.CompareAndSwap(false, true) {
		e.logger.Debug("skipping snapshot, previous save still in flight")
		return
	}
	go func() {
		defer e.saving.Store(false)
		if err := e.rdb.Save(*e.storage); err != nil {
			e.logger.Error("Auto-save RDB failed", zap.Error(err))
		}
	}()
}

func (e *Engine) restoreAOF() {
	cmds, err := e.aof.Load()
	if err != nil {
		e.logger.Error("Failed to load AOF", zap.Error(err))
		return
	}

	e.logger.Info("Restoring AOF...", zap.Int("commands", len(cmds)))

	for _, cmdVal := range cmds {
		if cmdVal.Type != resp.TypeArray || len(cmdVal.Array) == 0 {
			continue
		}

		name := string(cmdVal.Array[0].String)
		args := cmdVal.Array[1:]

		cmd, ok := e.commands[strings.ToUpper(name)]
		if ok {
			ctx := &cmdContext{args: args, storage: e.storage}
			cmd.execute(ctx)
		}
	}
	e.logger.Info("AOF restore finished")
}

// startGCLoop triggers the active expiration mechanism
func (e *Engine) startGCLoop() {
	ticker := time.NewTicker(e.GCInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := (*e.storage).DeleteExpired(e.cfg.GC.SamplesPerCheck)

			if stats > 0 {
				e.logger.Debug("GC delete expired", zap.Float64("expired_ratio", stats))
			}

			// Pick up any interval change (from SetGCInterval) before the next wait.
			ticker.Reset(e.GCInterval())
		case <-e.stopGC:
			e.logger.Info("GC stopped")
			return
		}
	}
}

// GCInterval returns the period at which the GC loop currently ticks.
func (e *Engine) GCInterval() time.Duration {
	return time.Duration(e.gcInterval.Load())
}

// SetGCInterval updates the GC tick period. The running loop picks it up
// after its next tick; it does not interrupt an in-flight wait.
func (e *Engine) SetGCInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	e.gcInterval.Store(int64(d))
}

// close signals background processes (GC loop and RDB auto-save) to shut down
func (e *Engine) close() {
	close(e.stopGC)
}

// register adds a new command to the engine. The command name is uppercase
func (e *Engine) register(name string, cmd command) {
	e.commands[strings.ToUpper(name)] = cmd
}

// registerBasicCommand fills the registry with standard commands
func (e *Engine) registerBasicCommand() {
	e.register("PING", commandFunc(ping))
	e.register("ECHO", commandFunc(echo))
	e.register("COMMAND", commandFunc(cmd))

	e.register("GET", commandFunc(get))
	e.register("SET", commandFunc(set))
	e.register("INCR", commandFunc(incrCmd))

	e.register("DEL", commandFunc(del))
	e.register("UNLINK", commandFunc(del))
	e.register("FLUSHALL", commandFunc(flushAll))
	e.register("KEYS", commandFunc(keysCmd))
	e.register("TYPE", commandFunc(typeCmd))
	e.register("EXPIRE", commandFunc(expireCmd))
	e.register("TTL", commandFunc(ttl))
	e.register("PTTL", commandFunc(pttl))
	e.register("PERSIST", commandFunc(persist))
	e.register("RENAME", commandFunc(renameCmd))

	e.register("LPUSH", commandFunc(lpush))
	e.register("RPUSH", commandFunc(rpush))
	e.register("LPOP", commandFunc(lpop))
	e.register("RPOP", commandFunc(rpop))
	e.register("LLEN", commandFunc(llen))
	e.register("LGET", commandFunc(lget))
	e.register("LRANGE", commandFunc(lrange))
	e.register("LREM", commandFunc(lrem))
	e.register("LINDEX", commandFunc(lindex))
	e.register("LSET", commandFunc(lset))

	e.register("HSET", commandFunc(hset))
	e.register("HGET", commandFunc(hget))
	e.register("HDEL", commandFunc(hdel))
	e.register("HEXISTS", commandFunc(hexists))
	e.register("HGETALL", commandFunc(hgetall))
	e.register("HKEYS", commandFunc(hkeys))
	e.register("HVALS", commandFunc(hvals))
	e.register("HLEN", commandFunc(hlen))
	e.register("HMSET", commandFunc(hmset))

	e.register("SAVE", commandFunc(func(ctx *cmdContext) resp.Value {
		if e.rdb == nil {
			return resp.MakeError("ERR RDB disabled")
		}
		if err := e.rdb.Save(*e.storage); err != nil {
			return resp.MakeError("ERR " + err.Error())
		}
		return resp.MakeSimpleString("OK")
	}))

	e.register("BGSAVE", commandFunc(func(ctx *cmdContext) resp.Value {
		if e.rdb == nil {
			return resp.MakeError("ERR RDB disabled")
		}
		e.snapshotOnce()
		return resp.MakeSimpleString("Background saving started")
	}))
}

// Execute finds the command by name and executes it with the passed arguments.
// If the command is not found, returns an error in the RESP format
func (e *Engine) Execute(name string, args []resp.Value) resp.Value {
	if e.logger.Core().Enabled(zap.DebugLevel) {
		// Log the command name and number of args
		e.logger.Debug("executing command",
			zap.String("cmd", name),
			zap.Int("args_count", len(args)),
		)
	}

	upper := strings.ToUpper(name)
	cmd, ok := e.commands[upper]
	if !ok {
		return resp.MakeError(fmt.Sprintf("ERR unknown command '%s'", name))
	}

	ctx := &cmdContext{
		args:    args,
		storage: e.storage,
	}

	res := cmd.execute(ctx)

	if e.aof != nil && res.Type != resp.TypeError && isWriteCommand(upper) {
		payload, err := resp.SerializeCommand(upper, args)
		if err != nil {
			e.logger.Error("Failed to serialize command for AOF", zap.Error(err))
		} else {
			e.aof.Write(payload)
		}
	}

	return res
}

// Shutdown stops background processes, flushes the AOF, and takes a final
// RDB snapshot if enabled, aggregating any failures with multierr.
func (e *Engine) Shutdown() error {
	var err error
	e.stopOnce.Do(func() {
		e.close()
		e.logger.Info("GC background process stopped")

		if e.aof != nil {
			err = multierr.Append(err, e.aof.Close())
		}

		if e.rdb != nil {
			err = multierr.Append(err, e.rdb.Save(*e.storage))
		}
	})
	return err
}

// isWriteCommand helper what command change state database
func isWriteCommand(name string) bool {
	switch name {
	case "SET", "DEL", "UNLINK", "FLUSHALL", "EXPIRE", "PERSIST", "RENAME",
		"INCR", "LPUSH", "RPUSH", "LPOP", "RPOP", "LREM", "LSET",
		"HSET", "HDEL", "HMSET":
		return true
	}
	return false
}

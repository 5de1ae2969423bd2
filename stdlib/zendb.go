package stdlib

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

type dbTable struct {
	schema        zen.Value
	records       []zen.Value
	autoIncrement int64
}

// database is an in-memory set of tables persisted as JSON in
// "<name>.zendb" under the runtime data directory.
type database struct {
	name   string
	path   string
	tables map[string]*dbTable
}

type tableFile struct {
	Schema        any   `json:"schema"`
	Data          []any `json:"data"`
	AutoIncrement int64 `json:"auto_increment"`
}

type databaseFile struct {
	Name       string                `json:"name"`
	Tables     map[string]*tableFile `json:"tables"`
	BackupTime float64               `json:"backup_time,omitempty"`
}

var errNoDatabase = zen.Errorf("no database connected")

func (db *database) table(name string) (*dbTable, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, zen.NewError(zen.ErrLookup, "table '%s' does not exist", name)
	}
	return t, nil
}

func matches(record zen.Value, where zen.Value) bool {
	fields := record.Object()
	for key, want := range where.Object() {
		got, ok := fields[key]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

func (db *database) selectRecords(name string, where zen.Value, limit int64) ([]zen.Value, error) {
	t, err := db.table(name)
	if err != nil {
		return nil, err
	}
	out := []zen.Value{}
	for _, rec := range t.records {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if matches(rec, where) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (db *database) snapshot() databaseFile {
	file := databaseFile{Name: db.name, Tables: make(map[string]*tableFile, len(db.tables))}
	for name, t := range db.tables {
		data := make([]any, len(t.records))
		for i, rec := range t.records {
			data[i] = zen.ToNative(rec)
		}
		file.Tables[name] = &tableFile{Schema: zen.ToNative(t.schema), Data: data, AutoIncrement: t.autoIncrement}
	}
	return file
}

func (db *database) restore(file databaseFile) {
	db.tables = make(map[string]*dbTable, len(file.Tables))
	for name, tf := range file.Tables {
		if tf == nil {
			continue
		}
		t := &dbTable{schema: zen.FromNative(tf.Schema), autoIncrement: tf.AutoIncrement}
		if t.schema.IsNull() {
			t.schema = zen.NewObject(map[string]zen.Value{})
		}
		if t.autoIncrement < 1 {
			t.autoIncrement = 1
		}
		for _, rec := range tf.Data {
			t.records = append(t.records, zen.FromNative(rec))
		}
		db.tables[name] = t
	}
}

func writeLocked(path string, file databaseFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return os.WriteFile(path, data, 0o644)
}

// readLocked reports false when path does not exist.
func readLocked(path string) (databaseFile, bool, error) {
	var file databaseFile
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return file, false, err
	}
	defer lock.Unlock()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return file, false, nil
	}
	if err != nil {
		return file, false, err
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return file, false, err
	}
	return file, true, nil
}

func (db *database) save() error {
	return writeLocked(db.path, db.snapshot())
}

func (db *database) load() (bool, error) {
	file, ok, err := readLocked(db.path)
	if err != nil || !ok {
		return false, err
	}
	db.restore(file)
	return true, nil
}

func now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func (rt *Runtime) connect(name string) (*database, error) {
	if db, ok := rt.databases[name]; ok {
		return db, nil
	}
	db := &database{
		name:   name,
		path:   filepath.Join(rt.dataDir, name+".zendb"),
		tables: make(map[string]*dbTable),
	}
	loaded, err := db.load()
	if err != nil {
		return nil, zen.Errorf("database load error: %v", err)
	}
	rt.log.Debug().Str("database", name).Str("path", db.path).Bool("loaded", loaded).Msg("zendb connect")
	rt.databases[name] = db
	return db, nil
}

// withDB adapts an operation on the current database.
func (rt *Runtime) withDB(fn func(db *database, args []zen.Value) (zen.Value, error)) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		if rt.currentDB == nil {
			return zen.NewNull(), errNoDatabase
		}
		return fn(rt.currentDB, args)
	}
}

// fieldValues collects numeric values of field across matching records.
// Records without the field count as 0.
func fieldValues(db *database, args []zen.Value) ([]zen.Value, error) {
	records, err := db.selectRecords(zen.Arg(args, 0).String(), zen.Arg(args, 2), 0)
	if err != nil {
		return nil, err
	}
	field := zen.Arg(args, 1).String()
	out := make([]zen.Value, len(records))
	for i, rec := range records {
		v, ok := rec.Object()[field]
		if !ok {
			v = zen.NewInt(0)
		}
		out[i] = v
	}
	return out, nil
}

func sumValues(values []zen.Value) zen.Value {
	var isum int64
	var fsum float64
	float := false
	for _, v := range values {
		if v.Kind() == zen.KindFloat {
			float = true
		}
		isum += v.Int()
		fsum += v.Float()
	}
	if float {
		return zen.NewFloat(fsum)
	}
	return zen.NewInt(isum)
}

func extremeValue(values []zen.Value, want int) zen.Value {
	if len(values) == 0 {
		return zen.NewNull()
	}
	best := values[0]
	for _, v := range values[1:] {
		if c, ok := v.Compare(best); ok && c == want {
			best = v
		}
	}
	return best
}

func (rt *Runtime) loadZenDB(_ *zen.Interpreter) (zen.Value, error) {
	selectFn := rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
		records, err := db.selectRecords(zen.Arg(args, 0).String(), zen.Arg(args, 1), zen.Arg(args, 2).Int())
		if err != nil {
			return zen.NewNull(), err
		}
		return zen.NewArray(records), nil
	})

	return object("zendb", funcs{
		"connect": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			name := zen.Arg(args, 0).String()
			if name == "" || strings.ContainsAny(name, `/\`) {
				return zen.NewNull(), zen.Errorf("invalid database name %q", name)
			}
			db, err := rt.connect(name)
			if err != nil {
				return zen.NewNull(), err
			}
			rt.currentDB = db
			return zen.NewObject(map[string]zen.Value{
				"name": zen.NewString(db.name),
				"path": zen.NewString(db.path),
			}), nil
		},
		"createTable": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			name := zen.Arg(args, 0).String()
			if _, ok := db.tables[name]; ok {
				return zen.NewNull(), zen.Errorf("table '%s' already exists", name)
			}
			schema := zen.Arg(args, 1)
			if schema.IsNull() {
				schema = zen.NewObject(map[string]zen.Value{})
			}
			db.tables[name] = &dbTable{schema: schema, autoIncrement: 1}
			return zen.NewBool(true), nil
		}),
		"tables": rt.withDB(func(db *database, _ []zen.Value) (zen.Value, error) {
			names := make(map[string]zen.Value, len(db.tables))
			for name := range db.tables {
				names[name] = zen.NewNull()
			}
			return zen.FromNative(zen.ObjectKeys(zen.NewObject(names))), nil
		}),
		"insert": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			t, err := db.table(zen.Arg(args, 0).String())
			if err != nil {
				return zen.NewNull(), err
			}
			record := zen.Arg(args, 1)
			fields := record.Object()
			if fields == nil {
				return zen.NewNull(), zen.NewError(zen.ErrType, "insert expects an object record, got %s", record.TypeName())
			}
			if _, ok := fields["id"]; !ok {
				fields["id"] = zen.NewInt(t.autoIncrement)
				t.autoIncrement++
			}
			fields["_created_at"] = zen.NewFloat(now())
			t.records = append(t.records, record)
			return fields["id"], nil
		}),
		"select": selectFn,
		"update": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			t, err := db.table(zen.Arg(args, 0).String())
			if err != nil {
				return zen.NewNull(), err
			}
			where, updates := zen.Arg(args, 1), zen.Arg(args, 2).Object()
			var count int64
			for _, rec := range t.records {
				if !matches(rec, where) {
					continue
				}
				fields := rec.Object()
				for key, val := range updates {
					fields[key] = val
				}
				fields["_updated_at"] = zen.NewFloat(now())
				count++
			}
			return zen.NewInt(count), nil
		}),
		"delete": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			t, err := db.table(zen.Arg(args, 0).String())
			if err != nil {
				return zen.NewNull(), err
			}
			where := zen.Arg(args, 1)
			kept := t.records[:0]
			var removed int64
			for _, rec := range t.records {
				if matches(rec, where) {
					removed++
					continue
				}
				kept = append(kept, rec)
			}
			t.records = kept
			return zen.NewInt(removed), nil
		}),
		"count": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			records, err := db.selectRecords(zen.Arg(args, 0).String(), zen.Arg(args, 1), 0)
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.NewInt(int64(len(records))), nil
		}),
		"save": rt.withDB(func(db *database, _ []zen.Value) (zen.Value, error) {
			if err := db.save(); err != nil {
				return zen.NewNull(), zen.Errorf("database save error: %v", err)
			}
			return zen.NewBool(true), nil
		}),
		"load": rt.withDB(func(db *database, _ []zen.Value) (zen.Value, error) {
			ok, err := db.load()
			if err != nil {
				return zen.NewNull(), zen.Errorf("database load error: %v", err)
			}
			return zen.NewBool(ok), nil
		}),
		"backup": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			file := db.snapshot()
			file.BackupTime = now()
			if err := writeLocked(zen.Arg(args, 0).String(), file); err != nil {
				return zen.NewNull(), zen.Errorf("database backup error: %v", err)
			}
			return zen.NewBool(true), nil
		}),
		"restore": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			file, ok, err := readLocked(zen.Arg(args, 0).String())
			if err == nil && !ok {
				err = os.ErrNotExist
			}
			if err != nil {
				return zen.NewNull(), zen.Errorf("database restore error: %v", err)
			}
			db.restore(file)
			return zen.NewBool(true), nil
		}),
		"migrate": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			t, err := db.table(zen.Arg(args, 0).String())
			if err != nil {
				return zen.NewNull(), err
			}
			add, remove := zen.Arg(args, 1).Object(), zen.StringList(zen.Arg(args, 2))
			for _, rec := range t.records {
				fields := rec.Object()
				for key, def := range add {
					if _, ok := fields[key]; !ok {
						fields[key] = def.DeepCopy()
					}
				}
				for _, key := range remove {
					delete(fields, key)
				}
			}
			return zen.NewBool(true), nil
		}),
		"query": rt.query,
		"hasMany": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			where := zen.NewObject(map[string]zen.Value{zen.Arg(args, 1).String(): zen.Arg(args, 2)})
			records, err := db.selectRecords(zen.Arg(args, 0).String(), where, 0)
			if err != nil {
				return zen.NewNull(), err
			}
			return zen.NewArray(records), nil
		}),
		"belongsTo": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			where := zen.NewObject(map[string]zen.Value{"id": zen.Arg(args, 2)})
			records, err := db.selectRecords(zen.Arg(args, 0).String(), where, 1)
			if err != nil || len(records) == 0 {
				return zen.NewNull(), err
			}
			return records[0], nil
		}),
		"sum_field": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			values, err := fieldValues(db, args)
			if err != nil {
				return zen.NewNull(), err
			}
			return sumValues(values), nil
		}),
		"avg_field": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			values, err := fieldValues(db, args)
			if err != nil {
				return zen.NewNull(), err
			}
			if len(values) == 0 {
				return zen.NewInt(0), nil
			}
			return zen.NewFloat(sumValues(values).Float() / float64(len(values))), nil
		}),
		"max_field": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			values, err := fieldValues(db, args)
			if err != nil {
				return zen.NewNull(), err
			}
			return extremeValue(values, 1), nil
		}),
		"min_field": rt.withDB(func(db *database, args []zen.Value) (zen.Value, error) {
			values, err := fieldValues(db, args)
			if err != nil {
				return zen.NewNull(), err
			}
			return extremeValue(values, -1), nil
		}),
		"hash": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			sum := sha256.Sum256([]byte(zen.Arg(args, 0).String()))
			return zen.NewString(hex.EncodeToString(sum[:])), nil
		},
		"generateId": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			id := uuid.New()
			return zen.NewString(hex.EncodeToString(id[:8])), nil
		},
		"timestamp": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewFloat(now()), nil
		},
		"now": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(time.Now().Format(dateLayout)), nil
		},
	}, nil), nil
}

// query returns a builder object: where(field, value) and limit(n) chain,
// get() and first() run the select against the current database.
func (rt *Runtime) query(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
	tableName := zen.Arg(args, 0).String()
	where := map[string]zen.Value{}
	var limit int64
	builder := zen.NewObject(map[string]zen.Value{"table": zen.NewString(tableName)})
	run := func() ([]zen.Value, error) {
		if rt.currentDB == nil {
			return nil, errNoDatabase
		}
		return rt.currentDB.selectRecords(tableName, zen.NewObject(where), limit)
	}
	members := builder.Object()
	members["where"] = zen.NewBuiltin("query.where", func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		where[zen.Arg(args, 0).String()] = zen.Arg(args, 1)
		return builder, nil
	})
	members["limit"] = zen.NewBuiltin("query.limit", func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		limit = zen.Arg(args, 0).Int()
		return builder, nil
	})
	members["get"] = zen.NewBuiltin("query.get", func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
		records, err := run()
		if err != nil {
			return zen.NewNull(), err
		}
		return zen.NewArray(records), nil
	})
	members["first"] = zen.NewBuiltin("query.first", func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
		limit = 1
		records, err := run()
		if err != nil || len(records) == 0 {
			return zen.NewNull(), err
		}
		return records[0], nil
	})
	return builder, nil
}

package stdlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

const seedUsers = `.include <zendb>
zendb.connect("app");
zendb.createTable("users");
zendb.insert("users", {name: "ada", age: 36, team: "core"});
zendb.insert("users", {name: "bob", age: 25, team: "web"});
zendb.insert("users", {id: 10, name: "cy", age: 41, team: "core"});
`

func TestZenDBCrud(t *testing.T) {
	h := newHarness(t, "")
	h.eval(t, seedUsers)
	val := h.eval(t, `.include <zendb>
ids = map(zendb.select("users"), function(u) { return u.id; });
core = zendb.count("users", {team: "core"});
updated = zendb.update("users", {name: "bob"}, {team: "core"});
removed = zendb.delete("users", {name: "ada"});
[ids, core, updated, removed, zendb.count("users"), zendb.select("users", {team: "core"}, 1)[0].name];`)
	want := `[[1, 2, 10], 2, 1, 1, 2, "bob"]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestZenDBInsertStampsRecord(t *testing.T) {
	h := newHarness(t, "")
	val := h.eval(t, `.include <zendb>
zendb.connect("stamps");
zendb.createTable("t");
rec = {v: 1};
id = zendb.insert("t", rec);
[id, rec.id, type(rec._created_at)];`)
	if val.String() != `[1, 1, "float"]` {
		t.Fatalf("insert result = %s", val.String())
	}
}

func TestZenDBAggregates(t *testing.T) {
	h := newHarness(t, "")
	h.eval(t, seedUsers)
	val := h.eval(t, `.include <zendb>
[zendb.sum_field("users", "age"), zendb.avg_field("users", "age", {team: "core"}),
 zendb.max_field("users", "age"), zendb.min_field("users", "age"), zendb.max_field("users", "age", {team: "none"})];`)
	want := `[102, 38.5, 41, 25, null]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestZenDBQueryAndRelations(t *testing.T) {
	h := newHarness(t, "")
	h.eval(t, seedUsers)
	val := h.eval(t, `.include <zendb>
first = zendb.query("users").where("team", "core").first();
all = zendb.query("users").where("team", "core").get();
zendb.createTable("posts");
zendb.insert("posts", {title: "hello", user_id: 10});
[first.name, length(all), length(zendb.hasMany("posts", "user_id", 10)), zendb.belongsTo("users", "user_id", 2).name];`)
	want := `["ada", 2, 1, "bob"]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestZenDBPersistsAcrossRuntimes(t *testing.T) {
	h := newHarness(t, "")
	h.eval(t, seedUsers+"zendb.save();")
	if _, err := os.Stat(filepath.Join(h.dir, "app.zendb")); err != nil {
		t.Fatalf("database file: %v", err)
	}

	other := newHarness(t, "")
	other.rt.dataDir = h.dir
	val := other.eval(t, `.include <zendb>
zendb.connect("app");
id = zendb.insert("users", {name: "dee"});
[zendb.count("users"), id];`)
	if val.String() != "[4, 3]" {
		t.Fatalf("reloaded database = %s", val.String())
	}
}

func TestZenDBMigrateBackupRestore(t *testing.T) {
	h := newHarness(t, "")
	h.eval(t, seedUsers)
	backup := filepath.Join(h.dir, "backup.json")
	val := h.eval(t, `.include <zendb>
zendb.migrate("users", {active: true}, ["team"]);
zendb.backup(`+q(backup)+`);
zendb.delete("users", {});
before = zendb.count("users");
zendb.restore(`+q(backup)+`);
u = zendb.select("users", {name: "ada"})[0];
[before, zendb.count("users"), u.active, hasKey(u, "team")];`)
	want := `[0, 3, true, false]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestZenDBUtilities(t *testing.T) {
	h := newHarness(t, "")
	val := h.eval(t, `.include <zendb>
[zendb.hash("abc"), length(zendb.generateId()), zendb.generateId() != zendb.generateId()];`)
	want := `["ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", 16, true]`
	if val.String() != want {
		t.Fatalf("utilities = %s", val.String())
	}
}

func TestZenDBErrors(t *testing.T) {
	h := newHarness(t, "")
	h.runtimeError(t, ".include <zendb>\nzendb.insert(\"t\", {});", "no database connected")
	h.eval(t, ".include <zendb>\nzendb.connect(\"errs\");\nzendb.createTable(\"t\");")
	h.runtimeError(t, ".include <zendb>\nzendb.createTable(\"t\");", "already exists")
	re := h.runtimeError(t, ".include <zendb>\nzendb.select(\"nope\");", "does not exist")
	if re.Type != zen.ErrLookup {
		t.Fatalf("type = %s", re.Type)
	}
	h.runtimeError(t, ".include <zendb>\nzendb.connect(\"../escape\");", "invalid database name")
}

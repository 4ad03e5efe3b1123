package kindcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hanbitworks/backoffice/pkg/fieldrule"
)

func TestDefaultRegistryCoversAllKinds(t *testing.T) {
	r := Default()
	want := []string{KindEducation, KindSecEducation, KindRegulation, KindSWAsset}
	keys := r.Keys()
	if len(keys) != len(want) {
		t.Fatalf("expected %d kinds, got %v", len(want), keys)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("key order %v, want %v", keys, want)
		}
		if _, ok := r.Kind(k); !ok {
			t.Fatalf("missing kind %q", k)
		}
	}
}

func TestEducationKindShape(t *testing.T) {
	k, _ := Default().Kind(KindEducation)
	if k.CodePrefix != "IT-EDU" {
		t.Fatalf("code prefix %q", k.CodePrefix)
	}
	cur, ok := k.Collection("curriculum")
	if !ok || !cur.Ordered || cur.PageSize != 5 {
		t.Fatalf("curriculum config: %+v ok=%v", cur, ok)
	}
	att, ok := k.Collection("attendees")
	if !ok || att.Ordered || att.PageSize != 9 {
		t.Fatalf("attendees config: %+v ok=%v", att, ok)
	}
	com, ok := k.Collection("comments")
	if !ok || !com.ReverseInsert {
		t.Fatalf("comments config: %+v ok=%v", com, ok)
	}
	if _, ok := k.Collection("purchases"); ok {
		t.Fatalf("education must not have a purchases collection")
	}
}

func TestRequiredRulesEvaluate(t *testing.T) {
	for _, key := range Default().Keys() {
		k, _ := Default().Kind(key)
		ok, err := fieldrule.Evaluate(k.RequiredRule, k.Defaults())
		if err != nil {
			t.Fatalf("kind %s rule: %v", key, err)
		}
		if ok {
			t.Fatalf("kind %s: empty defaults must fail the required rule", key)
		}
	}
}

func TestDefaultsSeedAllFields(t *testing.T) {
	k, _ := Default().Kind(KindSWAsset)
	d := k.Defaults()
	if len(d) != len(k.Fields) {
		t.Fatalf("expected %d seeded fields, got %d", len(k.Fields), len(d))
	}
	for _, f := range k.Fields {
		if v, ok := d[f]; !ok || v != "" {
			t.Fatalf("field %q not seeded empty", f)
		}
	}
}

func TestParseRegistryFile(t *testing.T) {
	doc := []byte(`
version: 1
kinds:
  - key: education
    code_prefix: IT-EDU
    fields: [code, name]
    collections:
      - name: curriculum
        page_size: 7
        ordered: true
`)
	r, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	k, ok := r.Kind("education")
	if !ok {
		t.Fatalf("missing kind")
	}
	c, _ := k.Collection("curriculum")
	if c.PageSize != 7 || !c.Ordered {
		t.Fatalf("collection: %+v", c)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"bad version":    "version: 2\nkinds: [{key: a, code_prefix: X}]",
		"empty":          "version: 1\nkinds: []",
		"missing prefix": "version: 1\nkinds: [{key: a}]",
		"duplicate":      "version: 1\nkinds: [{key: a, code_prefix: X}, {key: a, code_prefix: Y}]",
		"bad collection": "version: 1\nkinds: [{key: a, code_prefix: X, collections: [{name: c, page_size: 0}]}]",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinds.yaml")
	doc := "version: 1\nkinds: [{key: only, code_prefix: IT-X}]"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("RECORD_KINDS_PATH", path)

	r, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if _, ok := r.Kind("only"); !ok {
		t.Fatalf("expected file registry, got %v", r.Keys())
	}

	t.Setenv("RECORD_KINDS_PATH", "")
	r, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv default: %v", err)
	}
	if _, ok := r.Kind(KindEducation); !ok {
		t.Fatalf("expected built-in registry")
	}
}

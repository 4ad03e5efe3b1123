package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hanbitworks/backoffice/modules/education/domain/types"
	"github.com/hanbitworks/backoffice/modules/education/infrastructure/persistence"
	"github.com/hanbitworks/backoffice/pkg/bizcode"
	"github.com/hanbitworks/backoffice/pkg/comments"
	"github.com/hanbitworks/backoffice/pkg/localid"
)

func TestEducationDB_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("short")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn, ok := connectTestPostgres(ctx, t)
	if !ok {
		return
	}
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	if err := ensureBackofficeSchemaForTest(ctx, conn); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(ctx, `TRUNCATE
backoffice.education_comments,
backoffice.education_attendees,
backoffice.education_curriculum,
backoffice.educations,
backoffice.code_sequences
`); err != nil {
		t.Fatal(err)
	}

	store := persistence.NewEducationPGStore(conn)
	curriculum := persistence.NewCurriculumPGStore(conn)
	thread := comments.NewPGStore(conn, "backoffice.education_comments", "education_id")
	codes := bizcode.NewPGGenerator(conn)

	code, err := codes.NextCode(ctx, "IT-EDU")
	if err != nil {
		t.Fatalf("next code: %v", err)
	}
	if !strings.HasPrefix(code, "IT-EDU-") || !strings.HasSuffix(code, "-001") {
		t.Fatalf("unexpected first code %q", code)
	}

	id, err := store.CreateEducation(ctx, types.Education{
		Code:          code,
		Name:          "정보보안 기본 교육",
		ExecutionDate: "2025-03-14",
		Location:      "본사 3층 교육장",
		EducationType: "집합",
		Status:        "planned",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetEducation(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != code || got.ExecutionDate != "2025-03-14" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Empty date writes NULL and reads back as empty string.
	got.ExecutionDate = ""
	if err := store.UpdateEducation(ctx, id, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = store.GetEducation(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExecutionDate != "" {
		t.Fatalf("expected empty execution_date, got %q", got.ExecutionDate)
	}

	if err := curriculum.InsertMany(ctx, id, []types.CurriculumItem{
		{OrderNo: 1, Title: "오리엔테이션", Minutes: "30"},
		{OrderNo: 2, Title: "사고 사례", Minutes: ""},
	}); err != nil {
		t.Fatalf("insert curriculum: %v", err)
	}
	items, err := curriculum.ListByRecordID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].OrderNo != 1 || items[1].Minutes != "" {
		t.Fatalf("unexpected curriculum rows: %+v", items)
	}
	secondID, ok := items[1].ID.PersistedValue()
	if !ok {
		t.Fatalf("expected persisted id, got %v", items[1].ID)
	}
	if err := curriculum.DeleteOne(ctx, secondID); err != nil {
		t.Fatalf("delete curriculum: %v", err)
	}

	if err := thread.InsertMany(ctx, id, []comments.Comment{
		{ID: localid.NewLocal(), Author: "hong.gd", Body: "강사 섭외 완료"},
	}); err != nil {
		t.Fatalf("insert comment: %v", err)
	}
	cs, err := thread.ListByRecordID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 || cs[0].Author != "hong.gd" || cs[0].CreatedAt == "" {
		t.Fatalf("unexpected comments: %+v", cs)
	}

	if _, err := store.GetEducation(ctx, "999999"); err == nil {
		t.Fatal("expected not found for unknown id")
	}
}

func TestSessionKVDB_PrefixDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("short")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	conn, ok := connectTestPostgres(ctx, t)
	if !ok {
		return
	}
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	if err := ensureBackofficeSchemaForTest(ctx, conn); err != nil {
		t.Fatal(err)
	}

	kv := newPGSessionKVFactory(conn).KVForSession("sid-test-1")
	other := newPGSessionKVFactory(conn).KVForSession("sid-test-2")

	for _, k := range []string{"education|add|new|fields", "education|add|new|curriculum", "regulation|add|new|fields"} {
		if err := kv.Put(ctx, k, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}
	if err := other.Put(ctx, "education|add|new|fields", []byte(`{"x":1}`)); err != nil {
		t.Fatal(err)
	}

	if err := kv.Put(ctx, "education|add|new|fields", []byte(`{"name":"a"}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	v, found, err := kv.Get(ctx, "education|add|new|fields")
	if err != nil || !found || string(v) != `{"name":"a"}` {
		t.Fatalf("get after upsert: %q found=%v err=%v", v, found, err)
	}

	if err := kv.DeleteByPrefix(ctx, "education|"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := kv.Get(ctx, "education|add|new|curriculum"); found {
		t.Fatal("prefix delete left an entry behind")
	}
	if _, found, _ := kv.Get(ctx, "regulation|add|new|fields"); !found {
		t.Fatal("prefix delete crossed prefixes")
	}
	if _, found, _ := other.Get(ctx, "education|add|new|fields"); !found {
		t.Fatal("prefix delete crossed sessions")
	}
}

func ensureBackofficeSchemaForTest(ctx context.Context, conn *pgx.Conn) error {
	ddl := []string{
		`CREATE SCHEMA IF NOT EXISTS backoffice;`,
		`
CREATE TABLE IF NOT EXISTS backoffice.educations (
  education_id bigserial PRIMARY KEY,
  code text NOT NULL DEFAULT '',
  name text NOT NULL,
  execution_date date,
  location text NOT NULL DEFAULT '',
  education_type text NOT NULL DEFAULT '',
  instructor text NOT NULL DEFAULT '',
  team_name text NOT NULL DEFAULT '',
  status text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.education_curriculum (
  curriculum_id bigserial PRIMARY KEY,
  education_id bigint NOT NULL REFERENCES backoffice.educations ON DELETE CASCADE,
  order_no int NOT NULL,
  title text NOT NULL DEFAULT '',
  instructor text NOT NULL DEFAULT '',
  minutes int
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.education_attendees (
  attendee_id bigserial PRIMARY KEY,
  education_id bigint NOT NULL REFERENCES backoffice.educations ON DELETE CASCADE,
  name text NOT NULL DEFAULT '',
  department text NOT NULL DEFAULT '',
  completed text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.education_comments (
  comment_id bigserial PRIMARY KEY,
  education_id bigint NOT NULL REFERENCES backoffice.educations ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.sec_educations (
  sec_education_id bigserial PRIMARY KEY,
  code text NOT NULL DEFAULT '',
  name text NOT NULL,
  execution_date date,
  location text NOT NULL DEFAULT '',
  education_type text NOT NULL DEFAULT '',
  target_audience text NOT NULL DEFAULT '',
  status text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.sec_education_attendees (
  attendee_id bigserial PRIMARY KEY,
  sec_education_id bigint NOT NULL REFERENCES backoffice.sec_educations ON DELETE CASCADE,
  name text NOT NULL DEFAULT '',
  department text NOT NULL DEFAULT '',
  completed text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.sec_education_comments (
  comment_id bigserial PRIMARY KEY,
  sec_education_id bigint NOT NULL REFERENCES backoffice.sec_educations ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.regulations (
  regulation_id bigserial PRIMARY KEY,
  code text NOT NULL DEFAULT '',
  title text NOT NULL,
  document_type text NOT NULL DEFAULT '',
  assignee text NOT NULL DEFAULT '',
  team_name text NOT NULL DEFAULT '',
  due_date date,
  created_date date,
  status text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.regulation_comments (
  comment_id bigserial PRIMARY KEY,
  regulation_id bigint NOT NULL REFERENCES backoffice.regulations ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.sw_assets (
  sw_asset_id bigserial PRIMARY KEY,
  code text NOT NULL DEFAULT '',
  name text NOT NULL,
  category text NOT NULL DEFAULT '',
  solution_provider text NOT NULL DEFAULT '',
  license_type text NOT NULL DEFAULT '',
  seats int,
  registered_date date,
  status text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.sw_asset_purchases (
  purchase_id bigserial PRIMARY KEY,
  sw_asset_id bigint NOT NULL REFERENCES backoffice.sw_assets ON DELETE CASCADE,
  purchase_date date,
  quantity int,
  amount numeric(14,2),
  note text NOT NULL DEFAULT ''
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.sw_asset_comments (
  comment_id bigserial PRIMARY KEY,
  sw_asset_id bigint NOT NULL REFERENCES backoffice.sw_assets ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.code_sequences (
  prefix text NOT NULL,
  year int NOT NULL,
  last_no int NOT NULL,
  PRIMARY KEY (prefix, year)
);
`,
		`
CREATE TABLE IF NOT EXISTS backoffice.session_kv (
  session_id text NOT NULL,
  key text NOT NULL,
  value bytea NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now(),
  PRIMARY KEY (session_id, key)
);
`,
	}

	for _, stmt := range ddl {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

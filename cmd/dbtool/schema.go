package main

// schemaDDL is rerunnable; every statement is IF NOT EXISTS.
var schemaDDL = []string{
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
	`CREATE INDEX IF NOT EXISTS education_curriculum_education_idx ON backoffice.education_curriculum (education_id, order_no);`,
	`
CREATE TABLE IF NOT EXISTS backoffice.education_attendees (
  attendee_id bigserial PRIMARY KEY,
  education_id bigint NOT NULL REFERENCES backoffice.educations ON DELETE CASCADE,
  name text NOT NULL DEFAULT '',
  department text NOT NULL DEFAULT '',
  completed text NOT NULL DEFAULT ''
);
`,
	`CREATE INDEX IF NOT EXISTS education_attendees_education_idx ON backoffice.education_attendees (education_id);`,
	`
CREATE TABLE IF NOT EXISTS backoffice.education_comments (
  comment_id bigserial PRIMARY KEY,
  education_id bigint NOT NULL REFERENCES backoffice.educations ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
	`CREATE INDEX IF NOT EXISTS education_comments_education_idx ON backoffice.education_comments (education_id, created_at);`,
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
	`CREATE INDEX IF NOT EXISTS sec_education_attendees_sec_education_idx ON backoffice.sec_education_attendees (sec_education_id);`,
	`
CREATE TABLE IF NOT EXISTS backoffice.sec_education_comments (
  comment_id bigserial PRIMARY KEY,
  sec_education_id bigint NOT NULL REFERENCES backoffice.sec_educations ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
	`CREATE INDEX IF NOT EXISTS sec_education_comments_sec_education_idx ON backoffice.sec_education_comments (sec_education_id, created_at);`,
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
	`CREATE INDEX IF NOT EXISTS regulation_comments_regulation_idx ON backoffice.regulation_comments (regulation_id, created_at);`,
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
	`CREATE INDEX IF NOT EXISTS sw_asset_purchases_sw_asset_idx ON backoffice.sw_asset_purchases (sw_asset_id);`,
	`
CREATE TABLE IF NOT EXISTS backoffice.sw_asset_comments (
  comment_id bigserial PRIMARY KEY,
  sw_asset_id bigint NOT NULL REFERENCES backoffice.sw_assets ON DELETE CASCADE,
  author text NOT NULL DEFAULT '',
  body text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT now()
);
`,
	`CREATE INDEX IF NOT EXISTS sw_asset_comments_sw_asset_idx ON backoffice.sw_asset_comments (sw_asset_id, created_at);`,
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
	`CREATE INDEX IF NOT EXISTS session_kv_updated_idx ON backoffice.session_kv (updated_at);`,
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const tomlConfig = `
[options]
ignorecase = true
timeoutlen = 500
clipboard = "unnamed"

[[mappings]]
modes = ["insert"]
from = "jj"
to = "<Esc>"
noremap = true

[[mappings]]
from = "Y"
to = "y$"
`

const yamlConfig = `
options:
  ignorecase: true
  timeoutlen: 500
  clipboard: unnamed
mappings:
  - modes: [insert]
    from: jj
    to: "<Esc>"
    noremap: true
  - from: Y
    to: y$
`

func checkParsedFile(t *testing.T, f *File) {
	t.Helper()

	if f.Options["ignorecase"] != true {
		t.Errorf("ignorecase = %v, want true", f.Options["ignorecase"])
	}
	if f.Options["clipboard"] != "unnamed" {
		t.Errorf("clipboard = %v, want unnamed", f.Options["clipboard"])
	}

	if len(f.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(f.Mappings))
	}
	m := f.Mappings[0]
	if len(m.Modes) != 1 || m.Modes[0] != "insert" {
		t.Errorf("Modes = %v, want [insert]", m.Modes)
	}
	if m.From != "jj" || m.To != "<Esc>" || !m.NoRemap {
		t.Errorf("first mapping = %+v", m)
	}
	if f.Mappings[1].From != "Y" || f.Mappings[1].NoRemap {
		t.Errorf("second mapping = %+v", f.Mappings[1])
	}
}

func TestParseTOML(t *testing.T) {
	f, err := ParseTOML([]byte(tomlConfig))
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}
	checkParsedFile(t, f)
}

func TestParseYAML(t *testing.T) {
	f, err := ParseYAML([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	checkParsedFile(t, f)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(path, []byte(tomlConfig), 0o644); err != nil {
			t.Fatal(err)
		}
		f, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		checkParsedFile(t, f)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte(yamlConfig), 0o644); err != nil {
			t.Fatal(err)
		}
		f, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile failed: %v", err)
		}
		checkParsedFile(t, f)
	})

	t.Run("missing file", func(t *testing.T) {
		f, err := LoadFile(filepath.Join(dir, "absent.toml"))
		if err != nil {
			t.Fatalf("missing file returned error: %v", err)
		}
		if f != nil {
			t.Error("missing file returned a File")
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "config.ini")
		if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("LoadFile(.ini) = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.toml")
		if err := os.WriteFile(path, []byte("[options\nbad"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadFile(path)
		if err == nil {
			t.Fatal("malformed file parsed without error")
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("error type = %T, want *ParseError", err)
		}
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MODALKIT_IGNORECASE", "true")
	t.Setenv("MODALKIT_TIMEOUTLEN", "250")
	t.Setenv("OTHER_SETTING", "x")

	values := LoadEnv(DefaultEnvPrefix)
	if values["ignorecase"] != "true" {
		t.Errorf("ignorecase = %v, want true", values["ignorecase"])
	}
	if values["timeoutlen"] != "250" {
		t.Errorf("timeoutlen = %v, want 250", values["timeoutlen"])
	}
	if _, ok := values["other_setting"]; ok {
		t.Error("unprefixed variable leaked into values")
	}

	s := NewStore()
	if err := s.Apply(values); err != nil {
		t.Fatalf("Apply(env) failed: %v", err)
	}
	if got := s.Int("timeoutlen"); got != 250 {
		t.Errorf("timeoutlen = %d, want 250", got)
	}
	if !s.Bool("ignorecase") {
		t.Error("ignorecase not set from env")
	}
}

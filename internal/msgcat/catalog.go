// Package msgcat is the catalog of user-facing messages. Messages are text/template
// strings keyed by dotted paths, loaded from the embedded French defaults and optional
// YAML override files.
package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed messages.fr.yaml
var defaultFiles embed.FS

const defaultFile = "messages.fr.yaml"

var funcs = template.FuncMap{"join": strings.Join}

type Catalog struct {
	mu    sync.RWMutex
	text  map[string]string
	lists map[string][]string
	tpls  map[string]*template.Template
}

// New loads the embedded messages, then applies the YAML files found in overrideDir.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{
		text:  make(map[string]string),
		lists: make(map[string][]string),
		tpls:  make(map[string]*template.Template),
	}

	raw, err := fs.ReadFile(defaultFiles, defaultFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded messages: %w", err)
	}
	if err := c.apply(raw); err != nil {
		return nil, fmt.Errorf("parse embedded messages: %w", err)
	}

	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustDefault returns the embedded catalog and panics if it does not parse.
func MustDefault() *Catalog {
	c, err := New("")
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read messages dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)

	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.apply(raw); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return nil
}

func (c *Catalog) apply(raw []byte) error {
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return err
	}

	text := make(map[string]string)
	lists := make(map[string][]string)
	if err := flatten(m, "", text, lists); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range text {
		c.text[k] = v
		delete(c.tpls, k)
	}
	for k, v := range lists {
		c.lists[k] = v
	}
	return nil
}

func flatten(src any, prefix string, text map[string]string, lists map[string][]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flatten(vv, key, text, lists); err != nil {
				return err
			}
		}
	case string:
		if prefix == "" {
			return errors.New("string value without key")
		}
		text[prefix] = v
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("unsupported value at %s[%d]: %T", prefix, i, item)
			}
			out = append(out, s)
		}
		lists[prefix] = out
	case nil:
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
	return nil
}

// Render executes the template stored under key. Missing keys and missing template
// fields are errors.
func (c *Catalog) Render(key string, data any) (string, error) {
	tpl, err := c.template(key)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", key, err)
	}
	return b.String(), nil
}

// Text is Render that falls back to the key itself, so a broken override never
// leaves a user without an answer.
func (c *Catalog) Text(key string, data any) string {
	s, err := c.Render(key, data)
	if err != nil {
		return key
	}
	return s
}

// List returns the string list stored under key.
func (c *Catalog) List(key string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.lists[key])
}

func (c *Catalog) template(key string) (*template.Template, error) {
	c.mu.RLock()
	tpl, ok := c.tpls[key]
	src, found := c.text[key]
	c.mu.RUnlock()
	if ok {
		return tpl, nil
	}
	if !found || strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("message not found: %s", key)
	}

	tpl, err := template.New(key).Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}

	c.mu.Lock()
	c.tpls[key] = tpl
	c.mu.Unlock()
	return tpl, nil
}

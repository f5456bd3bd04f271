package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Config keys are addressed by their JSON names joined with dots, e.g.
// "transport.twilio.channel" or "web.port". Every leaf of Config is a
// string, bool or int, so paths resolve directly against the struct and
// credentials left empty (omitted from the JSON file) can still be set.

// GetByPath returns the value at path. A section path such as "transport"
// returns the whole section.
func GetByPath(cfg *Config, path string) (any, error) {
	v, err := lookup(cfg, path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// SetByPath converts value to the type of the key at path and stores it.
// On error cfg is left unchanged. Phone numbers and IDs stay strings even
// when they look numeric, because conversion follows the field type.
func SetByPath(cfg *Config, path string, value any) error {
	v, err := lookup(cfg, path)
	if err != nil {
		return err
	}
	raw := fmt.Sprint(value)

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", path, raw)
		}
		v.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s expects an integer, got %q", path, raw)
		}
		v.SetInt(int64(n))
	case reflect.Struct:
		return fmt.Errorf("%s is a section; set one of its keys (see 'casedocs config list')", path)
	default:
		return fmt.Errorf("%s has unsupported type %s", path, v.Kind())
	}
	return nil
}

// ListPaths returns every settable key with its current value.
func ListPaths(cfg *Config) map[string]any {
	result := make(map[string]any)
	collect("", reflect.ValueOf(cfg).Elem(), result)
	return result
}

// Sanitize returns a copy of the config with credentials masked.
func Sanitize(cfg *Config) *Config {
	out := *cfg // Config holds only value fields

	t := &out.Transport
	for _, secret := range []*string{
		&t.Twilio.AccountSID,
		&t.Twilio.AuthToken,
		&t.WhatsApp.AccessToken,
		&t.Telegram.Token,
		&t.Discord.Token,
		&t.Slack.BotToken,
	} {
		if *secret != "" {
			*secret = maskString(*secret)
		}
	}
	return &out
}

// maskString shows first 4 and last 4 chars, masks the rest.
func maskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

func lookup(cfg *Config, path string) (reflect.Value, error) {
	if strings.TrimSpace(path) == "" {
		return reflect.Value{}, fmt.Errorf("empty path")
	}
	v := reflect.ValueOf(cfg).Elem()
	for _, key := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("cannot traverse into %s at %s", v.Kind(), key)
		}
		next, ok := fieldByJSONName(v, key)
		if !ok {
			return reflect.Value{}, fmt.Errorf("key not found: %s", path)
		}
		v = next
	}
	return v, nil
}

func fieldByJSONName(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if jsonName(t.Field(i)) == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func collect(prefix string, v reflect.Value, result map[string]any) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		path := jsonName(t.Field(i))
		if prefix != "" {
			path = prefix + "." + path
		}
		if f := v.Field(i); f.Kind() == reflect.Struct {
			collect(path, f, result)
		} else {
			result[path] = f.Interface()
		}
	}
}

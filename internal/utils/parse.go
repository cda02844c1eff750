package utils

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into v.
func LoadTOMLFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		log.Warnf("Config %s does not decode: %v. Recovering what still parses...", path, err)
		return err
	}
	return nil
}

// ParseTOMLWithRecovery decodes path into a generic map. When the whole file
// is not valid TOML, every table is decoded on its own and the tables that
// parse are kept, so one broken [dict] does not cost the [installed] list.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	whole := make(map[string]any)
	_, wholeErr := toml.Decode(string(data), &whole)
	if wholeErr == nil {
		return whole, nil
	}

	recovered := make(map[string]any)
	for _, chunk := range splitTables(string(data)) {
		part := make(map[string]any)
		if _, err := toml.Decode(chunk, &part); err != nil {
			log.Debugf("Dropping config table %q: %v", tableName(chunk), err)
			continue
		}
		for k, v := range part {
			recovered[k] = v
		}
	}
	if len(recovered) == 0 {
		log.Warnf("Could not recover any table from %s: %v", path, wholeErr)
		return nil, wholeErr
	}
	log.Warnf("Config %s is damaged; kept tables: %s", path, strings.Join(sortedKeys(recovered), ", "))
	return recovered, nil
}

// splitTables cuts TOML text before each table header line.
func splitTables(text string) []string {
	var chunks []string
	var cur strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "[") && cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	if strings.TrimSpace(cur.String()) != "" {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func tableName(chunk string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(chunk), "\n")
	return strings.Trim(first, "[] ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExtractSection returns the table called name.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// ExtractBool returns data[key] when it is a bool.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	if val, ok := data[key].(bool); ok {
		return val, true
	}
	return false, false
}

// ExtractString returns data[key] when it is a string.
func ExtractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}

// ExtractBoolTable returns the bool entries of the table called name, such
// as the [installed] dictionary names. Entries of other types are dropped.
func ExtractBoolTable(data map[string]any, name string) map[string]bool {
	section, ok := ExtractSection(data, name)
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(section))
	for key := range section {
		if val, ok := ExtractBool(section, key); ok {
			out[key] = val
		} else {
			log.Debugf("Ignoring non-bool [%s] entry %q", name, key)
		}
	}
	return out
}

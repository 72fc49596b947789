package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/todos-go/internal/utils"
)

// SchemaVersion is the only seed file version understood.
const SchemaVersion = 1

const seedSchemaURL = "https://github.com/nibzard/todos-go/seed.schema.json"

//go:embed seed.schema.json
var seedSchema string

// SeedSchema returns the embedded JSON Schema for seed files.
func SeedSchema() string {
	return seedSchema
}

// File is the seed/export file structure.
type File struct {
	SchemaVersion int    `json:"schema_version" yaml:"schema_version"`
	Tasks         []Task `json:"tasks" yaml:"tasks"`
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema with a schema file.
	SchemaPath string
	// SkipSchema disables JSON Schema validation, leaving only the minimal checks.
	SkipSchema bool
	// Limits, when set, also checks name lengths and the task count.
	Limits *Limits
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Format names a seed file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. An empty string yields FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q, must be json or yaml", s)
}

// FormatForPath picks the encoding from the file extension.
// Anything other than .yaml or .yml is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses a seed file from path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	defer f.Close()
	return DecodeFormat(f, FormatForPath(path))
}

// DecodeFormat parses a seed file in the given format from r.
func DecodeFormat(r io.Reader, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&f)
	default:
		err = json.NewDecoder(r).Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Save writes the file to path, choosing the encoding from its extension.
func (f *File) Save(path string) error {
	data, err := f.Encode(FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	return nil
}

// Encode encodes the file in the given format. JSON uses 2-space
// indentation and a trailing newline.
func (f *File) Encode(format Format) ([]byte, error) {
	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("marshal seed file: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal seed file: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal seed file: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate validates the file.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schemaChecked := false
	if !opts.SkipSchema {
		schemaResult := validateWithSchema(f, opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		if schemaResult.UsedSchema {
			schemaChecked = true
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
		} else {
			result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		}
	}

	if !schemaChecked {
		f.validateMinimal(result)
	}
	// IDs must be unique whatever the schema says.
	f.validateIDs(result)
	if opts.Limits != nil {
		f.validateLimits(*opts.Limits, result)
	}

	return result
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion),
		})
	}

	if f.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i, task := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTaskMinimal(&task, path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
}

// validateTaskMinimal performs minimal task validation.
func validateTaskMinimal(task *Task, path string) *ValidationError {
	if task.ID <= 0 {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("must be positive, got %d", task.ID),
		}
	}
	if strings.TrimSpace(task.Name) == "" {
		return &ValidationError{
			Path: path + ".name",
			Err:  ErrEmptyName,
		}
	}
	return nil
}

func (f *File) validateIDs(result *ValidationResult) {
	seen := make(map[int64]int, len(f.Tasks))
	for i, task := range f.Tasks {
		if task.ID == 0 {
			continue
		}
		if first, ok := seen[task.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d (first used by tasks[%d])", task.ID, first),
			})
			continue
		}
		seen[task.ID] = i
	}
}

func (f *File) validateLimits(limits Limits, result *ValidationResult) {
	if limits.Bounded() && len(f.Tasks) > limits.MaxTaskCount {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("%w: %d tasks, maximum is %d", ErrLimitReached, len(f.Tasks), limits.MaxTaskCount),
		})
	}
	for i, task := range f.Tasks {
		name := strings.TrimSpace(task.Name)
		if n := utf8.RuneCountInString(name); n > limits.MaxNameLength {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].name", i),
				Err:  fmt.Errorf("%w: %d characters, maximum is %d", ErrNameTooLong, n, limits.MaxNameLength),
			})
		}
	}
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(seedSchemaURL, strings.NewReader(seedSchema)); err != nil {
			return nil, err
		}
		return compiler.Compile(seedSchemaURL)
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return compiler.Compile(absPath)
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(f *File, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema: %v", err))
		return result
	}
	result.UsedSchema = true

	// Round-trip through JSON so the schema sees the wire form.
	fileData, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("failed to marshal file for validation: %w", err))
		return result
	}
	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("failed to unmarshal file for validation: %w", err))
		return result
	}

	if err := schema.Validate(fileObj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// Err joins the validation errors into one error, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid seed file: %s", strings.Join(msgs, "; "))
}

// LoadSeed loads and validates a seed file against limits.
func LoadSeed(path string, limits Limits) (*File, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(ValidationOptions{Limits: &limits}).Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// Package todo holds the in-memory task list and its seed file format.
//
// A Store keeps tasks in insertion order together with the active view
// filter. All mutation goes through the Store:
//
//	s := todo.NewStore(todo.CappedLimits())
//	t, err := s.AddTask("Buy milk")
//	_ = s.ToggleComplete(t.ID)
//	s.SetFilter(todo.FilterCompleted)
//	visible := s.VisibleTasks()
//
// # Limits
//
// Limits bounds the task name length and, optionally, the number of tasks:
//
//   - capped: names up to 30 characters, at most 4 tasks
//   - open: names up to 100 characters, no task cap
//   - adaptive: no task cap, name length follows the viewport width
//
// Once a capped list rejects an add, LimitReached reports true until a
// removal brings the list back under capacity.
//
// # Seed Files
//
// A seed file preloads the list at start-up:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"id": 1, "name": "Buy milk", "completed": false}
//	  ]
//	}
//
// Files ending in .yaml or .yml use the same structure in YAML.
// Seed files are validated against an embedded JSON Schema, falling back to
// minimal structural checks when the schema cannot be compiled. Seed files
// are only read; the store never writes them back.
package todo

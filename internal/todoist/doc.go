// Package todoist provides a client for the Todoist REST API (v1).
//
// The client covers tasks, projects, sections, labels and comments:
//   - Create, read, update and delete for every resource
//   - Task state transitions (close, reopen, move) and quick add
//   - Filter queries and completed-task listings
//   - Cursor pagination exposed as lazy page sequences (Pager)
//
// # Authentication
//
// Requests carry the personal API token as a bearer token. The token is
// read by the caller, normally from TODOIST_API_TOKEN; NewClient returns a
// *ConfigurationError when it is empty.
//
// # Errors
//
// Non-2xx responses surface as *APIError. Operations that Todoist answers
// with a bare success signal (close, delete, archive, ...) return false
// instead of an error when the item is missing or already in the target
// state.
//
// # Example Usage
//
//	client, err := todoist.NewClient(ctx, todoist.Config{Token: os.Getenv(todoist.TokenEnvVar)})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	task, err := client.AddTask(ctx, todoist.Args{"content": "Buy milk"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for page, err := range client.GetTasks(ctx, todoist.Args{"project_id": task.ProjectID}) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(len(page))
//	}
package todoist

// Package model defines the order form value types shared by the schema,
// the form state controller, the submission handler and the views. The form
// is a plain value: Clone produces an independent copy that can be handed to
// asynchronous validation or serialised as the submission payload without
// racing further edits.
package model

package reporttemplate

import (
	"fmt"
	"strconv"
	"strings"
)

// UserFieldRow is one editable form row for a declared field
type UserFieldRow struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Value   string    `json:"value"`
	IsMulti bool      `json:"is_multi"`
}

// BadSelectionError reports a selection value that did not parse as ids
type BadSelectionError struct {
	FieldID string
	Token   string
}

func (e *BadSelectionError) Error() string {
	return fmt.Sprintf("field %q: invalid selection token %q", e.FieldID, e.Token)
}

// selectionKey is the form key carrying the raw comma-joined ids of a field
func selectionKey(fieldID string) string {
	return fieldID + "Selection"
}

// BuildUserFieldRows produces the editable rows for the given specs. The value
// comes from the submitted form's "<id>Selection" key when present, otherwise
// from the saved params of the report being edited, joined with commas.
func BuildUserFieldRows(specs []UserFieldSpec, form map[string]string, params ParamsObject) []UserFieldRow {
	rows := make([]UserFieldRow, 0, len(specs))

	for _, spec := range specs {
		value := ""
		if v, ok := form[selectionKey(spec.ID)]; ok {
			value = v
		} else if ids, ok := params[spec.ID]; ok {
			value = JoinSelection(ids)
		}

		rows = append(rows, UserFieldRow{
			ID:      spec.ID,
			Name:    spec.Name,
			Type:    spec.Type,
			Value:   value,
			IsMulti: spec.IsMulti(),
		})
	}

	return rows
}

// BuildParamsObject reads each field's "<id>Selection" form value and parses
// it into ordered ids. An absent or empty selection yields an empty entry, so
// every declared field is always present in the result. Order and duplicates
// are preserved.
func BuildParamsObject(specs []UserFieldSpec, form map[string]string) (ParamsObject, error) {
	params := make(ParamsObject, len(specs))

	for _, spec := range specs {
		sel := form[selectionKey(spec.ID)]
		if sel == "" {
			params[spec.ID] = []int64{}
			continue
		}

		tokens := strings.Split(sel, ",")
		ids := make([]int64, 0, len(tokens))
		for _, token := range tokens {
			id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
			if err != nil {
				return nil, &BadSelectionError{FieldID: spec.ID, Token: token}
			}
			ids = append(ids, id)
		}
		params[spec.ID] = ids
	}

	return params, nil
}

// JoinSelection renders ids back into the comma-joined form value
func JoinSelection(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

package reporttemplate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testSpecs() []UserFieldSpec {
	return []UserFieldSpec{
		{ID: "campaign", Name: "Campaign", Type: FieldTypeCampaign, MinOccurrences: 1, MaxOccurrences: 1},
		{ID: "extras", Name: "Extra campaigns", Type: FieldTypeCampaign, MinOccurrences: 0, MaxOccurrences: 0},
	}
}

func TestBuildParamsObject(t *testing.T) {
	tests := []struct {
		name string
		form map[string]string
		want ParamsObject
	}{
		{
			name: "Order And Duplicates Preserved",
			form: map[string]string{"campaignSelection": "7", "extrasSelection": "3,5,5"},
			want: ParamsObject{"campaign": {7}, "extras": {3, 5, 5}},
		},
		{
			name: "Absent Selection Yields Empty Entry",
			form: map[string]string{"campaignSelection": "7"},
			want: ParamsObject{"campaign": {7}, "extras": {}},
		},
		{
			name: "All Empty",
			form: map[string]string{},
			want: ParamsObject{"campaign": {}, "extras": {}},
		},
		{
			name: "Whitespace Around Tokens",
			form: map[string]string{"campaignSelection": " 7 ", "extrasSelection": "1, 2"},
			want: ParamsObject{"campaign": {7}, "extras": {1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildParamsObject(testSpecs(), tt.form)
			if err != nil {
				t.Fatalf("BuildParamsObject() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildParamsObject() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildParamsObjectBadToken(t *testing.T) {
	_, err := BuildParamsObject(testSpecs(), map[string]string{"extrasSelection": "3,abc,5"})
	if err == nil {
		t.Fatal("expected an error for a malformed token")
	}

	var bad *BadSelectionError
	if !errors.As(err, &bad) {
		t.Fatalf("expected BadSelectionError, got %T", err)
	}
	if bad.FieldID != "extras" || bad.Token != "abc" {
		t.Errorf("unexpected error details: %+v", bad)
	}
}

func TestBuildUserFieldRows(t *testing.T) {
	specs := testSpecs()

	t.Run("From Saved Params", func(t *testing.T) {
		params := ParamsObject{"campaign": {7}, "extras": {3, 5, 5}}
		rows := BuildUserFieldRows(specs, nil, params)

		want := []UserFieldRow{
			{ID: "campaign", Name: "Campaign", Type: FieldTypeCampaign, Value: "7", IsMulti: false},
			{ID: "extras", Name: "Extra campaigns", Type: FieldTypeCampaign, Value: "3,5,5", IsMulti: true},
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Form Wins Over Params", func(t *testing.T) {
		params := ParamsObject{"campaign": {7}}
		form := map[string]string{"campaignSelection": "9"}
		rows := BuildUserFieldRows(specs, form, params)
		if rows[0].Value != "9" {
			t.Errorf("expected form value to win, got %q", rows[0].Value)
		}
	})

	t.Run("No Source Yields Empty Value", func(t *testing.T) {
		rows := BuildUserFieldRows(specs, nil, nil)
		for _, row := range rows {
			if row.Value != "" {
				t.Errorf("row %s: expected empty value, got %q", row.ID, row.Value)
			}
		}
	})
}

// Editing an existing report and resubmitting unchanged must reproduce the
// same params: rows -> form -> params is a fixed point.
func TestEditRoundTrip(t *testing.T) {
	specs := testSpecs()
	params := ParamsObject{"campaign": {7}, "extras": {3, 5, 5}}

	rows := BuildUserFieldRows(specs, nil, params)
	form := make(map[string]string)
	for _, row := range rows {
		form[row.ID+"Selection"] = row.Value
	}

	got, err := BuildParamsObject(specs, form)
	if err != nil {
		t.Fatalf("BuildParamsObject() error = %v", err)
	}
	if diff := cmp.Diff(params, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestIsMulti(t *testing.T) {
	tests := []struct {
		min, max int
		want     bool
	}{
		{1, 1, false},
		{0, 1, true},
		{0, 0, true},
		{2, 5, true},
	}
	for _, tt := range tests {
		spec := UserFieldSpec{MinOccurrences: tt.min, MaxOccurrences: tt.max}
		if got := spec.IsMulti(); got != tt.want {
			t.Errorf("IsMulti(min=%d,max=%d) = %v, want %v", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestTemplateValidate(t *testing.T) {
	tests := []struct {
		name    string
		fields  []UserFieldSpec
		wantErr bool
	}{
		{
			name:   "Valid",
			fields: testSpecs(),
		},
		{
			name: "Duplicate Id",
			fields: []UserFieldSpec{
				{ID: "campaign", Type: FieldTypeCampaign, MinOccurrences: 1, MaxOccurrences: 1},
				{ID: "campaign", Type: FieldTypeCampaign},
			},
			wantErr: true,
		},
		{
			name:    "Missing Id",
			fields:  []UserFieldSpec{{Type: FieldTypeCampaign}},
			wantErr: true,
		},
		{
			name:    "Min Exceeds Max",
			fields:  []UserFieldSpec{{ID: "campaign", Type: FieldTypeCampaign, MinOccurrences: 3, MaxOccurrences: 2}},
			wantErr: true,
		},
		{
			name:   "Zero Max Means Unbounded",
			fields: []UserFieldSpec{{ID: "campaign", Type: FieldTypeCampaign, MinOccurrences: 3, MaxOccurrences: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := &ReportTemplate{Name: "t", UserFields: tt.fields}
			err := template.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

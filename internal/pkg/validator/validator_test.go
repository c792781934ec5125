package validator

import "testing"

type bookingForm struct {
	Date     string `json:"date" validate:"required,slot_date"`
	Time     string `json:"time" validate:"required,slot_time"`
	Phone    string `json:"phone" validate:"required,phone"`
	Role     string `json:"role" validate:"omitempty,role"`
	Duration int    `json:"duration_minutes" validate:"omitempty,service_duration"`
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	form := bookingForm{Date: "2025-03-10", Time: "17:30", Phone: "+385 91 234 5678", Role: "admin", Duration: 90}
	if errs := Validate(form); errs != nil {
		t.Fatalf("Validate() = %v, want nil", errs)
	}
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	form := bookingForm{Date: "2024-02-30", Time: "10:15", Phone: "abc", Role: "owner", Duration: 45}
	errs := Validate(form)

	for _, field := range []string{"date", "time", "phone", "role", "duration_minutes"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for %q in %v", field, errs)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	errs := Validate(bookingForm{})
	if errs["date"] != "This field is required" {
		t.Fatalf("date error = %q", errs["date"])
	}
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar("09:00", "slot_time"); err != nil {
		t.Fatalf("ValidateVar(09:00) error = %v", err)
	}
	if err := ValidateVar("18:00", "slot_time"); err == nil {
		t.Fatal("ValidateVar(18:00) should fail")
	}
}

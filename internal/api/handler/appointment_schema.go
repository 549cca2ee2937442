package handler

// --- Request types ---

type bookingRequest struct {
	UserName    string `json:"user_name"        validate:"required,max=120"`
	UserEmail   string `json:"user_email"       validate:"required,email"`
	UserPhone   string `json:"user_phone"`
	DoctorName  string `json:"doctor_name"      validate:"required"`
	Date        string `json:"appointment_date" validate:"required"`
	Time        string `json:"appointment_time" validate:"required"`
	ServiceType string `json:"service_type"     validate:"required"`
	Notes       string `json:"notes"            validate:"max=2000"`
}

// updateAppointmentRequest is a partial edit; omitted fields stay unchanged.
type updateAppointmentRequest struct {
	UserName    *string `json:"user_name"        validate:"omitempty,max=120"`
	UserEmail   *string `json:"user_email"       validate:"omitempty,email"`
	UserPhone   *string `json:"user_phone"`
	DoctorName  *string `json:"doctor_name"`
	Date        *string `json:"appointment_date"`
	Time        *string `json:"appointment_time"`
	ServiceType *string `json:"service_type"`
	Notes       *string `json:"notes"            validate:"omitempty,max=2000"`
	Status      *string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type promotionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type contactRequest struct {
	Name    string `json:"name"    validate:"required,max=120"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required,max=5000"`
}

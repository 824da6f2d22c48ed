package orderstatus

type Status struct {
	Name  string
	label string
}

func (s Status) Code() string {
	return s.Name
}

// Label is the Korean text shown to customers.
func (s Status) Label() string {
	if s.label == "" {
		return s.Name
	}
	return s.label
}

// Editable reports whether items may still be changed or the order cancelled.
func (s Status) Editable() bool {
	return s.Name == Statuses.Received.Name
}

type Enum struct {
	Received   Status
	Cooking    Status
	Delivering Status
	Completed  Status
	Cancelled  Status
	Rejected   Status
}

var Statuses = Enum{
	Received:   Status{Name: "RECEIVED", label: "접수 완료"},
	Cooking:    Status{Name: "COOKING", label: "조리 중"},
	Delivering: Status{Name: "DELIVERING", label: "배달 중"},
	Completed:  Status{Name: "COMPLETED", label: "배달 완료"},
	Cancelled:  Status{Name: "CANCELLED", label: "취소됨"},
	Rejected:   Status{Name: "REJECTED", label: "주방 거절"},
}

var All = []Status{
	Statuses.Received,
	Statuses.Cooking,
	Statuses.Delivering,
	Statuses.Completed,
	Statuses.Cancelled,
	Statuses.Rejected,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// LabelOf falls back to the raw code for statuses this client does not know.
func LabelOf(name string) string {
	if s := ByName(name); s != nil {
		return s.Label()
	}
	return name
}

package response

import (
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/usecase"
)

type SlotResponse struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func FromSlot(s parking.Slot) SlotResponse {
	return SlotResponse{Row: s.Row, Col: s.Col}
}

type BookResponse struct {
	Slot  SlotResponse `json:"slot"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	QR    string       `json:"qr"`
}

func FromBookResult(r *usecase.BookResult) BookResponse {
	return BookResponse{
		Slot:  FromSlot(r.Slot),
		Start: r.Start.UTC(),
		End:   r.End.UTC(),
		QR:    r.QR,
	}
}

type OccupancyResponse struct {
	Occupied int `json:"occupied"`
	Total    int `json:"total"`
}

type SlotOccupiedResponse struct {
	Occupied bool `json:"occupied"`
}

type FindSlotResponse struct {
	Slot SlotResponse `json:"slot"`
}

type FreeSlotsResponse struct {
	Free  int `json:"free"`
	Total int `json:"total"`
}

type LotSlotResponse struct {
	SlotID   string `json:"slot_id"`
	Occupied bool   `json:"occupied"`
}

type LotResponse struct {
	ID    string            `json:"_id"`
	Name  string            `json:"name"`
	Slots []LotSlotResponse `json:"slots"`
}

func FromSlotStatuses(id, name string, statuses []parking.SlotStatus) LotResponse {
	slots := make([]LotSlotResponse, len(statuses))
	for i, st := range statuses {
		slots[i] = LotSlotResponse{SlotID: st.Slot.Label(), Occupied: st.Occupied}
	}
	return LotResponse{ID: id, Name: name, Slots: slots}
}

type TicketResponse struct {
	Valid         bool         `json:"valid"`
	Active        bool         `json:"active"`
	ReservationID string       `json:"reservation_id"`
	Slot          SlotResponse `json:"slot"`
	Start         time.Time    `json:"start"`
	End           time.Time    `json:"end"`
	Plate         string       `json:"plate"`
}

func FromTicketStatus(st *usecase.TicketStatus) TicketResponse {
	return TicketResponse{
		Valid:         true,
		Active:        st.Active,
		ReservationID: st.Ticket.ReservationID.String(),
		Slot:          SlotResponse{Row: st.Ticket.Row, Col: st.Ticket.Col},
		Start:         st.Ticket.Start.UTC(),
		End:           st.Ticket.End.UTC(),
		Plate:         st.Ticket.Plate,
	}
}

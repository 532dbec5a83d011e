package model

type LoanResponse struct {
	Loan Loan `json:"loan"`
}

type OverdueLoansResponse struct {
	OverdueLoans []Loan `json:"overdueLoans"`
}

type ActiveLoansResponse struct {
	ActiveLoans []Loan `json:"activeLoans"`
}

type ReservationResponse struct {
	Reservation Reservation `json:"reservation"`
}

type ExpiredReservationsResponse struct {
	ExpiredReservations []Reservation `json:"expiredReservations"`
}

type ActiveReservationsResponse struct {
	ActiveReservations []Reservation `json:"activeReservations"`
}

type BookResponse struct {
	Book Book `json:"book"`
}

type UserResponse struct {
	User User `json:"user"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

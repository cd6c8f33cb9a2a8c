package clients

import "time"

type Client struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	Name          string    `json:"name"`
	Industry      string    `json:"industry"`
	EmployeeCount int       `json:"employeeCount"`
	ContactName   string    `json:"contactName"`
	ContactEmail  string    `json:"contactEmail"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Input struct {
	Name          string `json:"name"`
	Industry      string `json:"industry"`
	EmployeeCount int    `json:"employeeCount"`
	ContactName   string `json:"contactName"`
	ContactEmail  string `json:"contactEmail"`
}

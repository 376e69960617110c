package adapters

import (
	"context"

	employeesservice "roadsaver_backend/internal/employees/service"
	"roadsaver_backend/internal/requests/domain"
	requestsservice "roadsaver_backend/internal/requests/service"
)

// EmployeePool exposes the simulated employee roster to the request simulation.
type EmployeePool struct {
	employees *employeesservice.Service
}

var _ requestsservice.EmployeeSource = (*EmployeePool)(nil)

func NewEmployeePool(employees *employeesservice.Service) *EmployeePool {
	return &EmployeePool{employees: employees}
}

// ListAvailable returns employees that are neither blacklisted globally nor in exclude.
func (p *EmployeePool) ListAvailable(ctx context.Context, exclude []string) ([]domain.Employee, error) {
	rows, err := p.employees.ListAvailable(ctx, exclude)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Employee{ID: row.ID, Name: row.FullName})
	}
	return out, nil
}

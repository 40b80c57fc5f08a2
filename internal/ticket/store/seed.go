package store

import (
	"context"
	"time"

	"turnero/internal/catalog"
	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
)

// SeedDemoData loads the demo catalog and counters used by local
// development: the credit-bureau service list, two branches, and four
// counters with overlapping capability sets.
func SeedDemoData(ctx context.Context, cat *catalog.InMemory, counters CounterStore) error {
	now := time.Now()

	serviceNames := []struct{ name, description string }{
		{"Solicitud de crédito", "Proceso para solicitar un nuevo crédito."},
		{"Reembolsos", "Gestión de solicitudes de reembolso."},
		{"Afiliación de Centros de Trabajo", "Afiliación o actualización de datos de centros de trabajo."},
		{"Aclaraciones de Crédito", "Aclaraciones sobre el estado o condiciones de un crédito."},
		{"Reestructuración de adeudo", "Proceso para reestructurar deudas existentes."},
		{"Pagos de Cédula", "Aclaraciones sobre pagos relacionados con cédulas."},
	}
	services := make([]*catalog.Service, len(serviceNames))
	for i, sn := range serviceNames {
		services[i] = &catalog.Service{
			ID:          id.NewServiceID(),
			Name:        sn.name,
			Description: sn.description,
			CreatedAt:   now,
		}
		cat.PutService(services[i])
	}

	centro := &catalog.Branch{ID: id.NewBranchID(), Name: "Sucursal Centro", Code: "SC01", CreatedAt: now}
	norte := &catalog.Branch{ID: id.NewBranchID(), Name: "Sucursal Norte", Code: "SN02", CreatedAt: now}
	cat.PutBranch(centro)
	cat.PutBranch(norte)

	credito := services[0].ID
	reembolsos := services[1].ID
	afiliacion := services[2].ID
	aclaraciones := services[3].ID

	seedCounters := []*models.Counter{
		{ID: id.NewCounterID(), Label: "V1", BranchID: centro.ID, Services: []id.ServiceID{credito}},
		{ID: id.NewCounterID(), Label: "V2", BranchID: centro.ID, Services: []id.ServiceID{reembolsos, aclaraciones}},
		{ID: id.NewCounterID(), Label: "V3", BranchID: centro.ID, Services: []id.ServiceID{credito, afiliacion}},
		{ID: id.NewCounterID(), Label: "V1", BranchID: norte.ID, Services: []id.ServiceID{credito, reembolsos}},
	}
	for _, c := range seedCounters {
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := counters.Insert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

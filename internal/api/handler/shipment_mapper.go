package handler

import (
	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest) ports.CreateShipmentInput {
	urgency := req.Urgency
	if urgency == "" {
		urgency = ports.UrgencyStandard
	}
	return ports.CreateShipmentInput{
		CustomerID:  req.CustomerID,
		WeightKg:    req.WeightKg,
		Origin:      toLocationInput(req.Origin),
		Destination: toLocationInput(req.Destination),
		Urgency:     urgency,
	}
}

func toLocationInput(l locationRequest) ports.LocationInput {
	return ports.LocationInput{
		Lat:     l.Lat,
		Lng:     l.Lng,
		Address: l.Address,
		City:    l.City,
		Country: l.Country,
	}
}

// --- Domain → HTTP response ---

func toLocationResponse(l domain.Location) locationResponse {
	return locationResponse{
		Lat:     l.Lat,
		Lng:     l.Lng,
		Address: l.Address,
		City:    l.City,
		Country: l.Country,
	}
}

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	history := make([]trackingEntryResponse, len(s.TrackingHistory))
	for i, entry := range s.TrackingHistory {
		history[i] = trackingEntryResponse{
			Timestamp:   entry.Timestamp,
			Status:      string(entry.Status),
			Location:    toLocationResponse(entry.Location),
			Description: entry.Description,
		}
	}

	ledger := make([]paymentEntryResponse, len(s.PaymentLedger))
	for i, entry := range s.PaymentLedger {
		ledger[i] = paymentEntryResponse{
			TransactionID: entry.TransactionID,
			Amount:        entry.Amount,
			Status:        string(entry.Status),
			RefundOf:      entry.RefundOf,
			Timestamp:     entry.Timestamp,
		}
	}

	resp := shipmentResponse{
		ID:                s.ID,
		TrackingID:        s.TrackingID,
		CustomerID:        s.CustomerID,
		WeightKg:          s.WeightKg,
		Origin:            toLocationResponse(s.Origin),
		Destination:       toLocationResponse(s.Destination),
		Status:            string(s.Status),
		Type:              string(s.Type),
		Cost:              s.Cost,
		IsInsured:         s.IsInsured,
		InsuranceValue:    s.InsuranceValue,
		Notes:             s.NoteList(),
		TrackingHistory:   history,
		PaymentLedger:     ledger,
		EstimatedDelivery: s.EstimatedDelivery,
		ActualDelivery:    s.ActualDelivery,
		Signature:         s.Signature,
		CreatedAt:         s.CreatedAt,
	}
	if s.AssignedVehicleID != nil {
		resp.AssignedVehicleID = *s.AssignedVehicleID
	}
	return resp
}

func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	resp := vehicleResponse{
		ID:              v.ID,
		LicenseID:       v.LicenseID,
		Variant:         string(v.Variant),
		CapacityKg:      v.CapacityKg,
		CurrentFuelPct:  v.CurrentFuelPct,
		SpeedDegPerTick: v.SpeedDegPerTick,
		Status:          string(v.Status),
	}
	if v.Position != nil {
		pos := toLocationResponse(*v.Position)
		resp.Position = &pos
	}
	if v.CurrentShipmentID != nil {
		resp.CurrentShipment = *v.CurrentShipmentID
	}
	return resp
}

func toCreateResponse(r *ports.CreateShipmentResult) createShipmentResponse {
	return createShipmentResponse{
		Shipment: toShipmentResponse(r.Shipment),
		Vehicle:  toVehicleResponse(r.Vehicle),
	}
}

func toAsyncCreateResponse(job *domain.Job, s *domain.Shipment) asyncCreateResponse {
	return asyncCreateResponse{
		Shipment: shipmentStubResponse{
			ID:         s.ID,
			TrackingID: s.TrackingID,
			Status:     string(s.Status),
		},
		JobID: job.JobID,
	}
}

func toGetResponse(d *ports.ShipmentDetail) getShipmentResponse {
	return getShipmentResponse{
		Shipment:        toShipmentResponse(d.Shipment),
		CurrentLocation: toLocationResponse(d.CurrentLocation),
	}
}

func toListResponse(r *ports.ListShipmentsResult) listShipmentsResponse {
	items := make([]shipmentSummaryResponse, len(r.Items))
	for i, s := range r.Items {
		items[i] = shipmentSummaryResponse{
			TrackingID:  s.TrackingID,
			CustomerID:  s.CustomerID,
			Status:      string(s.Status),
			Type:        string(s.Type),
			WeightKg:    s.WeightKg,
			Cost:        s.Cost,
			Origin:      toLocationResponse(s.Origin),
			Destination: toLocationResponse(s.Destination),
			CreatedAt:   s.CreatedAt,
		}
	}
	return listShipmentsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		JobID:     j.JobID,
		Type:      j.Type,
		Status:    string(j.Status),
		Result:    j.Result,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

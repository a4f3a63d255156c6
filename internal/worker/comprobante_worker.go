package worker

// Processes receipt jobs from QueueComprobante: renders the sale PDF to disk
// and mails it to the client.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"farmacia/internal/infra"
	"farmacia/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Sender delivers a receipt e-mail. *infra.Mailer satisfies it.
type Sender interface {
	SendComprobante(to, subject, body, pdfPath string) error
}

type ComprobanteWorker struct {
	ventas      repository.VentaRepository
	sender      Sender
	storagePath string
}

func NewComprobanteWorker(ventas repository.VentaRepository, sender Sender, storagePath string) *ComprobanteWorker {
	return &ComprobanteWorker{ventas: ventas, sender: sender, storagePath: storagePath}
}

// Process returns nil for jobs that can never succeed (bad payload, no
// recipient, sale deleted) so they are not retried.
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobantePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return nil
	}
	if payload.Correo == "" {
		log.Warn().Uint("venta_id", payload.VentaID).Msg("comprobante_worker: empty correo, skipping")
		return nil
	}

	v, err := w.ventas.FindByID(ctx, payload.VentaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Uint("venta_id", payload.VentaID).Msg("comprobante_worker: venta no longer exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load venta %d: %w", payload.VentaID, err)
	}

	path, err := infra.SaveComprobantePDF(v, w.storagePath)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Comprobante %s %s", v.TipoComp, v.NumeroDoc)
	body := fmt.Sprintf("Gracias por su compra. Adjuntamos el comprobante de su venta N° %d por un total de S/ %s.",
		v.ID, v.Total.StringFixed(2))
	if err := w.sender.SendComprobante(payload.Correo, subject, body, path); err != nil {
		return err
	}
	log.Info().Uint("venta_id", v.ID).Str("to", payload.Correo).Msg("comprobante_worker: comprobante sent")
	return nil
}

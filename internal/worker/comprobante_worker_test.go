package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"farmacia/internal/repository"
	"farmacia/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envio struct{ to, subject, path string }

type fakeSender struct {
	envios []envio
	err    error
}

func (s *fakeSender) SendComprobante(to, subject, _ string, pdfPath string) error {
	if s.err != nil {
		return s.err
	}
	s.envios = append(s.envios, envio{to: to, subject: subject, path: pdfPath})
	return nil
}

func payload(t *testing.T, ventaID uint, correo string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(ComprobantePayload{VentaID: ventaID, Correo: correo})
	require.NoError(t, err)
	return b
}

func TestComprobanteWorker_EnviaPDF(t *testing.T) {
	db := testutil.NewDB(t)
	c := testutil.SeedCliente(t, db, "Ana Torres")
	p := testutil.SeedProducto(t, db, "Paracetamol 500mg", 10, "2.50")
	v := testutil.SeedVenta(t, db, c.ID, time.Now(), "5.00", map[uint]int{p.ID: 2})

	sender := &fakeSender{}
	dir := t.TempDir()
	w := NewComprobanteWorker(repository.NewVentaRepository(db), sender, dir)

	require.NoError(t, w.Process(context.Background(), payload(t, v.ID, "ana@farmacia.test")))
	require.Len(t, sender.envios, 1)
	assert.Equal(t, "ana@farmacia.test", sender.envios[0].to)
	assert.Contains(t, sender.envios[0].subject, v.NumeroDoc)

	data, err := os.ReadFile(sender.envios[0].path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestComprobanteWorker_NoReintentaLoImposible(t *testing.T) {
	db := testutil.NewDB(t)
	sender := &fakeSender{}
	w := NewComprobanteWorker(repository.NewVentaRepository(db), sender, t.TempDir())

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{bad`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, 1, "")))
	assert.NoError(t, w.Process(context.Background(), payload(t, 404, "x@farmacia.test")))
	assert.Empty(t, sender.envios)
}

func TestComprobanteWorker_FalloDeEnvioSeReintenta(t *testing.T) {
	db := testutil.NewDB(t)
	c := testutil.SeedCliente(t, db, "Ana Torres")
	p := testutil.SeedProducto(t, db, "Ibuprofeno", 10, "3.00")
	v := testutil.SeedVenta(t, db, c.ID, time.Now(), "3.00", map[uint]int{p.ID: 1})

	w := NewComprobanteWorker(repository.NewVentaRepository(db), &fakeSender{err: errors.New("circuit breaker is open")}, t.TempDir())
	assert.Error(t, w.Process(context.Background(), payload(t, v.ID, "ana@farmacia.test")))
}

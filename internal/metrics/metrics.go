package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BillsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldland_bills_created_total",
		Help: "Bills created, by bill type.",
	}, []string{"bill_type"})

	BillsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldland_bills_cancelled_total",
		Help: "Bills cancelled and reversed.",
	})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldland_payments_recorded_total",
		Help: "Payment rows appended, by payment type.",
	}, []string{"payment_type"})

	StockMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldland_stock_movements_total",
		Help: "Stock movements appended, by kind.",
	}, []string{"kind"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goldland_advance_orders_created_total",
		Help: "Advance orders booked.",
	})
)

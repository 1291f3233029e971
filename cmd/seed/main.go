// seed pushes a deterministic year of demo transactions to a running
// insights server, then prints the resulting feed and prediction.
//
// Usage:
//
//	go run ./cmd/seed -url http://localhost:8111 -user demo-user
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/kuxala/hackathon-project-sub000/internal/analytics"
	"github.com/kuxala/hackathon-project-sub000/internal/auth"
	"github.com/kuxala/hackathon-project-sub000/internal/logger"
	"github.com/kuxala/hackathon-project-sub000/internal/service"
)

func main() {
	log := logger.New("info")

	apiURL := flag.String("url", envOr("API_URL", "http://localhost:8111"), "base URL of the insights server")
	user := flag.String("user", "", "impersonate this user (local auth with debug impersonation only)")
	token := flag.String("token", os.Getenv("ID_TOKEN"), "Firebase ID token for firebase auth mode")
	months := flag.Int("months", 12, "full months of history to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := service.NewInsightsServiceClient(
		http.DefaultClient,
		*apiURL,
		connect.WithInterceptors(headerInterceptor(*user, *token)),
	)

	txns := generateHistory(time.Now().UTC(), *months, rand.New(rand.NewSource(*seed)))
	log.Info().Int("transactions", len(txns)).Str("target", *apiURL).Msg("seeding")

	for start := 0; start < len(txns); start += service.MaxImportBatch {
		end := min(start+service.MaxImportBatch, len(txns))
		resp, err := client.ImportTransactions(ctx, connect.NewRequest(&service.ImportTransactionsRequest{
			Transactions: txns[start:end],
		}))
		if err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
		log.Info().Int("imported", resp.Msg.Imported).Str("refresh_job", resp.Msg.RefreshJobID).Msg("imported batch")
	}

	insights, err := client.GetInsights(ctx, connect.NewRequest(&service.GetInsightsRequest{}))
	if err != nil {
		log.Fatal().Err(err).Msg("get insights failed")
	}
	for _, in := range insights.Msg.Insights {
		log.Info().
			Str("kind", string(in.Kind)).
			Str("severity", string(in.Severity)).
			Msg(in.Headline)
	}

	prediction, err := client.GetPrediction(ctx, connect.NewRequest(&service.GetPredictionRequest{}))
	if err != nil {
		log.Fatal().Err(err).Msg("get prediction failed")
	}
	p := prediction.Msg.Prediction
	log.Info().
		Str("period", p.TargetPeriod).
		Float64("total", p.TotalPredicted).
		Float64("confidence", p.OverallConfidence).
		Int("months_used", p.MonthsOfHistoryUsed).
		Msg("prediction")
}

func headerInterceptor(user, token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			if user != "" {
				req.Header().Set(auth.ImpersonateHeader, user)
			}
			return next(ctx, req)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type subscription struct {
	merchant string
	amount   float64
	day      int
}

var subscriptions = []subscription{
	{"Netflix", 15.99, 5},
	{"Spotify", 9.99, 12},
	{"City Gym", 49.00, 3},
	{"iCloud", 2.99, 20},
}

// generateHistory builds months full calendar months before now plus the
// current month to date. The last full month has dining up by roughly a
// third, and one appliance purchase dwarfs a normal day.
func generateHistory(now time.Time, months int, rng *rand.Rand) []analytics.TransactionRecord {
	var txns []analytics.TransactionRecord
	add := func(date time.Time, desc, merchant, category string, amount float64, dir analytics.Direction) {
		if date.After(now) {
			return
		}
		txns = append(txns, analytics.TransactionRecord{
			Date:               date,
			Description:        desc,
			Merchant:           merchant,
			Category:           category,
			Amount:             float64(int(amount*100)) / 100,
			Direction:          dir,
			CategoryConfidence: 0.9,
		})
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := months; m >= 0; m-- {
		monthStart := current.AddDate(0, -m, 0)
		day := func(d, hour int) time.Time {
			return monthStart.AddDate(0, 0, d-1).Add(time.Duration(hour) * time.Hour)
		}
		daysInMonth := monthStart.AddDate(0, 1, -1).Day()

		add(day(1, 9), "Salary ACME Ltd", "ACME Ltd", "Income", 2600, analytics.DirectionCredit)
		add(day(15, 9), "Salary ACME Ltd", "ACME Ltd", "Income", 2600, analytics.DirectionCredit)
		add(day(2, 8), "Rent", "Harbour Property", "Housing", 1450, analytics.DirectionDebit)

		for _, s := range subscriptions {
			add(day(s.day, 6), s.merchant+" subscription", s.merchant, "Subscriptions", s.amount, analytics.DirectionDebit)
		}

		for d := 4; d <= daysInMonth; d += 7 {
			add(day(d, 18), "Weekly shop", "FreshMart", "Groceries", 85+rng.Float64()*30, analytics.DirectionDebit)
		}

		diningScale := 1.0
		if m == 1 {
			diningScale = 1.35
		}
		for d := 6; d <= daysInMonth; d += 5 {
			add(day(d, 20), "Dinner out", "Various", "Dining", (38+rng.Float64()*10)*diningScale, analytics.DirectionDebit)
		}

		for d := 1; d <= daysInMonth; d += 2 {
			add(day(d, 8), "Flat white", "Corner Coffee", "Coffee", 4.5+rng.Float64(), analytics.DirectionDebit)
		}

		add(day(9+rng.Intn(10), 13), "Fuel", "Metro Fuel", "Transport", 55+rng.Float64()*20, analytics.DirectionDebit)
		add(day(22, 11), "Phone bill", "TelcoOne", "Utilities", 65, analytics.DirectionDebit)
		add(day(18, 12), "Uncategorised transfer", "", "", 20+rng.Float64()*40, analytics.DirectionDebit)

		if m == 2 {
			add(day(11, 15), "Appliance store", "MegaElectrics", "Shopping", 1299, analytics.DirectionDebit)
		}
	}
	return txns
}

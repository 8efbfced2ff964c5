package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rakhmadg/sky-travel-service/internal/app/config"
	"github.com/rakhmadg/sky-travel-service/internal/app/dto"
	"github.com/rakhmadg/sky-travel-service/internal/app/endpoints"
	httptransport "github.com/rakhmadg/sky-travel-service/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Route("/flights", func(router chi.Router) {
			router.Post("/search", httptransport.MakeHandlerFunc(
				endpts.Travel.SearchFlights,
				httptransport.DecodeRequest[dto.FlightSearchRequest],
				httptransport.ResponseWithBody,
			))

			router.Post("/itinerary", httptransport.MakeHandlerFunc(
				endpts.Travel.ItineraryDetails,
				httptransport.DecodeRequest[dto.ItineraryDetailsRequest],
				httptransport.ResponseWithBody,
			))
		})

		router.Route("/cars", func(router chi.Router) {
			router.Post("/search", httptransport.MakeHandlerFunc(
				endpts.Travel.SearchCars,
				httptransport.DecodeRequest[dto.CarRentalSearchRequest],
				httptransport.ResponseWithBody,
			))
		})

		router.Route("/places", func(router chi.Router) {
			router.Get("/airports", httptransport.MakeHandlerFunc(
				endpts.Travel.SuggestAirports,
				decodeAirportSuggest,
				httptransport.ResponseWithBody,
			))
		})
	})

	return router
}

func decodeAirportSuggest(_ context.Context, req *http.Request) (interface{}, error) {
	request := &dto.AirportSuggestRequest{
		Query: req.URL.Query().Get("query"),
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	return request, nil
}

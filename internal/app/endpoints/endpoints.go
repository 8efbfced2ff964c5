package endpoints

// Endpoints holds every endpoint group exposed over transport.
type Endpoints struct {
	Travel TravelEndpoint
}

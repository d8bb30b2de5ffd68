package app

import (
	"github.com/pairforge/pairforge-backend/internal/clients/openai"
	"github.com/pairforge/pairforge-backend/internal/clients/pinecone"
	"github.com/pairforge/pairforge-backend/internal/pkg/envutil"
	"github.com/pairforge/pairforge-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI  openai.Client
	Vectors pinecone.VectorStore
}

// wireClients builds the external collaborators. Both are optional: a
// missing key leaves the field nil and the services that need it
// answer 503 instead of failing startup.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	var clients Clients

	ai, err := openai.NewClient(log)
	if err != nil {
		log.Warn("OpenAI client unavailable", "error", err)
	} else {
		clients.OpenAI = ai
	}

	apiKey := envutil.Get("PINECONE_API_KEY", "")
	if apiKey == "" {
		log.Warn("Pinecone client unavailable", "error", "missing PINECONE_API_KEY")
		return clients
	}
	pc, err := pinecone.New(log, pinecone.Config{APIKey: apiKey})
	if err != nil {
		log.Warn("Pinecone client unavailable", "error", err)
		return clients
	}
	vectors, err := pinecone.NewVectorStore(log, pc)
	if err != nil {
		log.Warn("Pinecone vector store unavailable", "error", err)
		return clients
	}
	clients.Vectors = vectors
	return clients
}

package googleEmbedding

import "errors"

var errEmptyResponse = errors.New("google returned no embeddings")

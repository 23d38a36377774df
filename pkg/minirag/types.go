package minirag

// Chunk is one word window of the source document. Index is its position
// in the chunk sequence and doubles as its position in the VectorIndex.
type Chunk struct {
	Index int
	Text  string
}

// Neighbor is a stored vector position with its L2 distance to a query.
type Neighbor struct {
	Index    int
	Distance float32
}

// Match is a search result resolved back to its chunk text.
type Match struct {
	ChunkIndex int     `json:"chunk_index"`
	ChunkText  string  `json:"chunk_text"`
	Distance   float32 `json:"distance"`
}

// EmbeddingData holds a built index and its chunks for persistence
type EmbeddingData struct {
	Chunks     []Chunk     // Document chunks
	Embeddings [][]float32 // Corresponding embeddings (same order as Chunks)
	ModelInfo  string      // Model name/version used
	Dimension  int         // Embedding vector dimension
}

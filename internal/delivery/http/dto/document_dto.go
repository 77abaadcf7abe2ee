package dto

import "docuchat/internal/domain/entity"

type UploadResponse struct {
	Status        string `json:"status"`
	IndexedFiles  int    `json:"indexedFiles"`
	IndexedChunks int    `json:"indexedChunks"`
	Replaced      bool   `json:"replaced"`
}

type QueryRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
}

type QueryResponse struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Sources  []entity.Source `json:"sources"`
}

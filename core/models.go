package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs. Conversation
// identifiers from the messaging platform are hashed this way so storage keys
// have a fixed width regardless of what the platform hands us.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MediaKind is the declared kind of an incoming contribution.
// An empty MediaKind means the request is a plain question.
type MediaKind string

const (
	// MediaNone marks a request with no attached media (a query).
	MediaNone MediaKind = ""
	// MediaDocument marks an uploaded document file.
	MediaDocument MediaKind = "document"
	// MediaURL marks a web page reference.
	MediaURL MediaKind = "url"
	// MediaImage marks an uploaded image.
	MediaImage MediaKind = "image"
	// MediaNote marks a plain text note.
	MediaNote MediaKind = "note"
)

// SourceType categorizes stored knowledge by its origin.
type SourceType string

const (
	// SourceDocument is text extracted from an uploaded document.
	SourceDocument SourceType = "document"
	// SourceURL is text scraped from a web page.
	SourceURL SourceType = "url"
	// SourceImageDescription is a generated textual description of an image.
	SourceImageDescription SourceType = "image_description"
	// SourceNote is a raw text note saved by the user.
	SourceNote SourceType = "text"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleHuman represents the human user.
	RoleHuman Role = "human"
	// RoleAI represents the assistant.
	RoleAI Role = "ai"
)

// Message is a single chat message with its author role.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is a completed question/answer pair in a conversation.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Messages expands the turn into its human and AI messages, in order.
func (t Turn) Messages() []Message {
	return []Message{
		{Role: RoleHuman, Content: t.Question},
		{Role: RoleAI, Content: t.Answer},
	}
}

// Document is a unit of text submitted for ingestion, before splitting.
type Document struct {
	Text       string
	Source     string
	SourceType SourceType
}

// Chunk is a bounded text span produced by splitting a document.
// Immutable once created; the Preview carries the first part of the
// originating document so search hits keep some surrounding context.
type Chunk struct {
	Text       string     `json:"content"`
	Source     string     `json:"source"`
	SourceType SourceType `json:"type"`
	Preview    string     `json:"full_source_preview"`
}

package codec

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrEmptyResponse is returned when the codec answers without usable content.
var ErrEmptyResponse = errors.New("codec: empty response")

// #region types
// GenerateRequest holds the seed core and conversational context for a
// generated variant.
type GenerateRequest struct {
	SeedText string
	UserText string
	Emotion  string
	Label    string
	Language string
}

// GenerateResult holds the response from a Generate RPC call.
type GenerateResult struct {
	Text       string
	Confidence float64
}

// #endregion types

// #region client-struct
// CodecClient wraps the gRPC connection to the generation and embedding service.
type CodecClient struct {
	conn   *grpc.ClientConn
	client Service
}

// #endregion client-struct

// #region constructor
// NewCodecClient connects to the codec gRPC server.
func NewCodecClient(addr string) (*CodecClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &CodecClient{
		conn:   conn,
		client: NewServiceClient(conn),
	}, nil
}

// NewCodecClientWithService creates a CodecClient with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewCodecClientWithService(svc Service) *CodecClient {
	return &CodecClient{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *CodecClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region generate
// Generate asks the service for a variant of the seed text.
func (c *CodecClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	in, err := structpb.NewStruct(map[string]any{
		"seed_text": req.SeedText,
		"user_text": req.UserText,
		"emotion":   req.Emotion,
		"label":     req.Label,
		"language":  req.Language,
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("build generate request: %w", err)
	}

	resp, err := c.client.Generate(ctx, in)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("generate rpc: %w", err)
	}

	text := resp.GetFields()["text"].GetStringValue()
	if text == "" {
		return GenerateResult{}, fmt.Errorf("generate rpc: %w", ErrEmptyResponse)
	}
	return GenerateResult{
		Text:       text,
		Confidence: resp.GetFields()["confidence"].GetNumberValue(),
	}, nil
}

// #endregion generate

// #region embed
// Embed sends text to the service for embedding.
func (c *CodecClient) Embed(ctx context.Context, text string) ([]float32, error) {
	in, err := structpb.NewStruct(map[string]any{"text": text})
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}

	resp, err := c.client.Embed(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("embed rpc: %w", err)
	}

	values := resp.GetFields()["embedding"].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, fmt.Errorf("embed rpc: %w", ErrEmptyResponse)
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v.GetNumberValue())
	}
	return out, nil
}

// #endregion embed

package predictorsvc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote MovePredictor. It implements predictor.Predictor.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection to a predictor server. The caller closes it.
func Dial(address string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to predictor at %s: %w", address, err)
	}
	return conn, nil
}

// Predict sends the board codes and returns the chosen cell index
func (c *Client) Predict(ctx context.Context, input []float32) (int, error) {
	values := make([]*structpb.Value, len(input))
	for i, v := range input {
		values[i] = structpb.NewNumberValue(float64(v))
	}

	resp := new(wrapperspb.Int32Value)
	if err := c.cc.Invoke(ctx, PredictFullMethod, &structpb.ListValue{Values: values}, resp); err != nil {
		return 0, fmt.Errorf("predict rpc: %w", err)
	}
	return int(resp.GetValue()), nil
}

package predictorsvc

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/predictor"
)

// Server exposes a predictor.Predictor as the MovePredictor service
type Server struct {
	predictor predictor.Predictor
	logger    zerolog.Logger
}

// NewServer creates a new MovePredictor server
func NewServer(p predictor.Predictor, logger zerolog.Logger) *Server {
	return &Server{
		predictor: p,
		logger:    logger.With().Str("component", "predictor_server").Logger(),
	}
}

// Predict decodes the board codes, runs the predictor and validates its answer
func (s *Server) Predict(ctx context.Context, req *structpb.ListValue) (*wrapperspb.Int32Value, error) {
	values := req.GetValues()
	if len(values) != predictor.InputSize {
		return nil, status.Errorf(codes.InvalidArgument, "expected %d cell codes, got %d", predictor.InputSize, len(values))
	}

	if event := s.logger.Debug(); event.Enabled() {
		if raw, err := protojson.Marshal(req); err == nil {
			event.RawJSON("request", raw)
		}
		event.Msg("Predict request")
	}

	input := make([]float32, len(values))
	for i, v := range values {
		number, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "value %d is not a number", i)
		}
		input[i] = float32(number.NumberValue)
	}

	index, err := s.predictor.Predict(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, predictor.ErrInvalidInput):
			return nil, status.Errorf(codes.InvalidArgument, "invalid board: %v", err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, status.FromContextError(err).Err()
		default:
			s.logger.Warn().Err(err).Msg("Predictor failed")
			return nil, status.Errorf(codes.Unavailable, "predictor failed: %v", err)
		}
	}

	if index < 0 || index >= predictor.InputSize {
		s.logger.Error().Int("index", index).Msg("Predictor returned out-of-range index")
		return nil, status.Errorf(codes.Internal, "predictor returned index %d outside [0,%d)", index, predictor.InputSize)
	}

	return wrapperspb.Int32(int32(index)), nil
}

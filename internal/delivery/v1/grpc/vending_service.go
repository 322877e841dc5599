package grpc

import (
	"context"
	"errors"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// idempotencyKeyMD — ключ метаданных с ключом идемпотентности подтверждения покупки.
const idempotencyKeyMD = "idempotency-key"

type VendingService struct {
	machineUC  usecase.MachineUC
	checkoutUC usecase.CheckoutUC
	logger     logger.Logger
}

func NewVendingService(machineUC usecase.MachineUC, checkoutUC usecase.CheckoutUC, logger logger.Logger) *VendingService {
	return &VendingService{machineUC: machineUC, checkoutUC: checkoutUC, logger: logger}
}

func (g *VendingService) ListProducts(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.ListProducts"

	return g.respond(op)(toProductsStruct(g.machineUC.ListProducts()))
}

func (g *VendingService) GetTransaction(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetTransaction"

	return g.respond(op)(toTransactionStruct(g.machineUC.Transaction()))
}

func (g *VendingService) SelectProduct(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.SelectProduct"

	id, err := uuid.Parse(stringField(req, "product_id"))
	if err != nil {
		g.logger.Warnf("%s: invalid product_id: %v", op, err)
		return nil, GRPCErrorResponse(e.Wrap(op, e.Wrap("product_id", e.ErrInvalidInput)))
	}

	if err := g.machineUC.SelectProductByID(id); err != nil {
		g.logger.Warnf("%s", e.Wrap(op, err).Error())
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return g.respond(op)(toTransactionStruct(g.machineUC.Transaction()))
}

func (g *VendingService) InsertCoin(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.InsertCoin"

	coin, err := domain.ParseDenomination(stringField(req, "coin"))
	if err != nil {
		g.logger.Warnf("%s", e.Wrap(op, err).Error())
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	if err := g.machineUC.InsertCoin(coin); err != nil {
		g.logger.Warnf("%s", e.Wrap(op, err).Error())
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return g.respond(op)(toTransactionStruct(g.machineUC.Transaction()))
}

// ConfirmPurchase подтверждает покупку. Нехватка сдачи или средств не считается ошибкой RPC:
// ответ содержит outcome (not_enough_change или insufficient_funds) и монеты для возврата.
func (g *VendingService) ConfirmPurchase(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.ConfirmPurchase"

	res, err := g.checkoutUC.Confirm(ctx, idempotencyKey(ctx))
	if err != nil {
		if errors.Is(err, e.ErrInsufficientFunds) || errors.Is(err, e.ErrRequestInProgress) {
			g.logger.Warnf("%s", e.Wrap(op, err).Error())
		} else {
			g.logger.Errorf(e.Wrap(op, err), "%s", op)
		}
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return g.respond(op)(toCheckoutStruct(res))
}

func (g *VendingService) CancelTransaction(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.CancelTransaction"

	return g.respond(op)(toRefundStruct(g.machineUC.Cancel()))
}

func (g *VendingService) GetVault(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetVault"

	return g.respond(op)(toVaultStruct(g.machineUC.VaultSnapshot()))
}

// respond превращает ошибку сборки ответа в codes.Internal.
func (g *VendingService) respond(op string) func(*structpb.Struct, error) (*structpb.Struct, error) {
	return func(res *structpb.Struct, err error) (*structpb.Struct, error) {
		if err != nil {
			g.logger.Errorf(e.Wrap(op, err), "%s: failed to build response", op)
			return nil, GRPCErrorResponse(e.Wrap(op, err))
		}
		return res, nil
	}
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(idempotencyKeyMD); len(values) > 0 {
		return values[0]
	}
	return ""
}

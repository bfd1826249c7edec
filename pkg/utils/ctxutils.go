package utils

import (
	"context"

	"agenda-system/pkg/contextkeys"
	apperrors "agenda-system/pkg/errors"
)

func GetOperatorIDFromCtx(ctx context.Context) (uint64, error) {
	operatorID, ok := ctx.Value(contextkeys.OperatorIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrOperatorIDNotFoundInContext
	}
	return operatorID, nil
}

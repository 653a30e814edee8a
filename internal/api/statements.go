package api

import (
	"context"
	"net/http"
	"time"

	"finapi/internal/ledger"
	"finapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// StatementRequest is the payload for deposit, withdraw and transfer.
// Positivity is enforced by the ledger service, which knows the rule.
type StatementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

func balanceCacheKey(userID string) string {
	return "balance:user:" + userID
}

// invalidateBalance drops the cached balance for each user after a write.
func invalidateBalance(ctx context.Context, rdb *redis.Client, userIDs ...string) {
	for _, id := range userIDs {
		_ = utils.DeleteCache(ctx, rdb, balanceCacheKey(id))
	}
}

// DepositHandler records a deposit for the authenticated user.
func DepositHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authedUser(c)
		if !ok {
			return
		}
		var req StatementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		stmt, err := l.Deposit(c.Request.Context(), userID, req.Amount, req.Description)
		if err != nil {
			writeError(c, err)
			return
		}
		invalidateBalance(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusCreated, stmt)
	}
}

// WithdrawHandler records a withdrawal for the authenticated user.
func WithdrawHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authedUser(c)
		if !ok {
			return
		}
		var req StatementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		stmt, err := l.Withdraw(c.Request.Context(), userID, req.Amount, req.Description)
		if err != nil {
			writeError(c, err)
			return
		}
		invalidateBalance(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusCreated, stmt)
	}
}

// TransferHandler moves funds from the authenticated user to the recipient
// named in the path.
func TransferHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID, ok := authedUser(c)
		if !ok {
			return
		}
		recipientID := c.Param("user_id")
		var req StatementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		stmt, err := l.Transfer(c.Request.Context(), senderID, recipientID, req.Amount, req.Description)
		if err != nil {
			writeError(c, err)
			return
		}
		invalidateBalance(c.Request.Context(), rdb, senderID, recipientID)
		c.JSON(http.StatusCreated, stmt)
	}
}

// BalanceHandler returns the derived balance and the entries it was folded
// from, cached for 60 seconds.
func BalanceHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authedUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		cacheKey := balanceCacheKey(userID)
		var cached ledger.Balance
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		balance, err := l.GetBalance(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, balance, 60*time.Second)
		c.JSON(http.StatusOK, balance)
	}
}

// GetStatementHandler returns a single ledger entry by id.
func GetStatementHandler(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authedUser(c)
		if !ok {
			return
		}
		stmt, err := l.GetStatementOperation(c.Request.Context(), userID, c.Param("statement_id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stmt)
	}
}

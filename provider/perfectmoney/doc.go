// Package perfectmoney integrates the Perfect Money payment system.
//
// A Gateway bundles everything one configured wallet needs:
//
//   - Signer verifies the V2_HASH of payment callbacks (SCI status requests)
//   - Client calls the account API (/acct/<script>.asp) and parses the
//     hidden-input answers into ordered Values
//   - ResultProcessor verifies a callback, asks the registered handlers to
//     authorize it and settles it inside a UnitOfWork
//   - BuildRedirectForm describes the form that sends a buyer to checkout
//
// # Basic Usage
//
//	gw, err := perfectmoney.New("shop", map[string]string{
//	    "accountId":       "1234567",
//	    "accountPassword": "passphrase",
//	    "walletNumber":    "U1234567",
//	    "alternateSecret": "alternate passphrase",
//	    "merchantName":    "My Shop",
//	    "resultUrl":       "/callback/shop",
//	    "successUrl":      "/success",
//	    "failureUrl":      "/failure",
//	    "baseUrl":         "https://shop.example.com",
//	}, perfectmoney.WithUnitOfWork(store))
//
//	gw.On(perfectmoney.HandlerFuncs{
//	    PaymentRequest: func(ctx context.Context, e *perfectmoney.GatewayEvent) error {
//	        // look the invoice up, compare amount and currency
//	        e.Handled = true
//	        return nil
//	    },
//	    PaymentSuccess: func(ctx context.Context, e *perfectmoney.GatewayEvent) error {
//	        // mark the invoice paid; an error rolls the unit of work back
//	        return nil
//	    },
//	})
//
//	balance, err := gw.Balance(ctx)
//	if errors.Is(err, perfectmoney.ErrCallFailed) {
//	    // provider unreachable, non-2xx, or an empty answer
//	}
//
// # Callback Errors
//
// ProcessResult rejects with *VerificationError (HTTP 403, never retried)
// or with *AuthorizationError / *SettlementError (HTTP 503, so the provider
// delivers again). HTTPStatus maps any of them to a status code.
package perfectmoney

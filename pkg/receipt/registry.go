package receipt

import "log"

type strategyKey struct {
	bank   Bank
	txType TransactionType
}

// strategies maps a classification to its extraction strategy. Transfer
// layouts are close enough to mobile-payment ones that no bank has needed a
// dedicated TRANSFER entry yet.
var strategies = map[strategyKey]Strategy{
	{BankVenezuela, TypeMobilePayment}: VenezuelaStrategy{},
	{BankBanesco, TypeMobilePayment}:   BanescoStrategy{},
	{BankMercantil, TypeMobilePayment}: MercantilStrategy{},
	{BankBancamiga, TypeMobilePayment}: BancamigaStrategy{},
}

// SelectStrategy classifies text and returns the matching strategy. Lookup is
// exact; a miss falls back to BaseStrategy so extraction always returns a
// (possibly empty) result instead of an error.
func SelectStrategy(text string) Strategy {
	if text == "" {
		return BaseStrategy{}
	}
	bank, txType := Classify(text)
	if s, ok := strategies[strategyKey{bank, txType}]; ok {
		log.Printf("receipt: classified bank=%s type=%s strategy=%s", bank, txType, s.Name())
		return s
	}
	log.Printf("receipt: no strategy for bank=%s type=%s, using base", bank, txType)
	return BaseStrategy{}
}

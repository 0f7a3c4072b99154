package main

import "context"

// CartService owns the cart aggregate: every mutation loads the full
// document, rewrites it in memory and saves it back whole, so items and
// total can never drift apart. The store is last-write-wins per user,
// which means two concurrent mutations on the same cart can race and the
// later save silently wins; there is no cross-cart coordination.
type CartService struct {
	store CartStore
	pub   *EventPublisher
}

func NewCartService(store CartStore, pub *EventPublisher) *CartService {
	return &CartService{store: store, pub: pub}
}

func itemIndex(items []Item, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// recalculate derives the cart total from scratch. Never patched
// incrementally: a partial update must not leave a stale total behind.
func recalculate(cart *Cart) {
	cart.TotalPrice = 0
	for _, it := range cart.Items {
		cart.TotalPrice += float64(it.Quantity) * it.Price
	}
}

func (s *CartService) setQuantity(ctx context.Context, cart *Cart, idx, quantity int) (*Cart, error) {
	item := cart.Items[idx]
	item.Quantity = quantity
	item.SubTotalPrice = float64(item.Quantity) * item.Price
	cart.Items[idx] = item
	recalculate(cart)
	return s.store.Save(ctx, cart)
}

// GetCart returns the user's cart, or (nil, nil) if they have none.
func (s *CartService) GetCart(ctx context.Context, userID string) (*Cart, error) {
	return s.store.Get(ctx, userID)
}

// AddItemToCart creates the cart on first add. When the product is
// already in the cart the quantities are merged additively and the
// freshly submitted price overwrites the stored one; otherwise the item
// is appended. The whole aggregate is recalculated and saved either way.
func (s *CartService) AddItemToCart(ctx context.Context, userID string, input ItemInput) (*Cart, error) {
	subTotal := float64(input.Quantity) * input.Price

	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		created, err := s.store.Create(ctx, userID, []Item{{
			ProductID:     input.ProductID,
			Name:          input.Name,
			Price:         input.Price,
			Quantity:      input.Quantity,
			SubTotalPrice: subTotal,
		}}, subTotal)
		if err != nil {
			return nil, err
		}
		s.publish("cart.item_added", CartItemAdded{UserID: userID, ProductID: input.ProductID, Quantity: input.Quantity})
		return created, nil
	}

	var saved *Cart
	if idx := itemIndex(cart.Items, input.ProductID); idx >= 0 {
		cart.Items[idx].Price = input.Price
		saved, err = s.setQuantity(ctx, cart, idx, cart.Items[idx].Quantity+input.Quantity)
	} else {
		cart.Items = append(cart.Items, Item{
			ProductID:     input.ProductID,
			Name:          input.Name,
			Price:         input.Price,
			Quantity:      input.Quantity,
			SubTotalPrice: subTotal,
		})
		recalculate(cart)
		saved, err = s.store.Save(ctx, cart)
	}
	if err != nil {
		return nil, err
	}
	s.publish("cart.item_added", CartItemAdded{UserID: userID, ProductID: input.ProductID, Quantity: input.Quantity})
	return saved, nil
}

// RemoveItemFromCart drops the line entirely. Returns (nil, nil) with no
// write when the cart or the product is missing; the controller decides
// the user-facing status.
func (s *CartService) RemoveItemFromCart(ctx context.Context, userID, productID string) (*Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}
	idx := itemIndex(cart.Items, productID)
	if idx < 0 {
		return nil, nil
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	recalculate(cart)
	saved, err := s.store.Save(ctx, cart)
	if err != nil {
		return nil, err
	}
	s.publish("cart.item_removed", CartItemRemoved{UserID: userID, ProductID: productID})
	return saved, nil
}

// UpdateItemQuantity sets the line's quantity, clamping negatives to 0.
// A zero-quantity line stays in the cart; it just contributes nothing to
// the total. Returns (nil, nil) with no write when the cart or product
// is missing.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}
	idx := itemIndex(cart.Items, productID)
	if idx < 0 {
		return nil, nil
	}
	if quantity < 0 {
		quantity = 0
	}
	saved, err := s.setQuantity(ctx, cart, idx, quantity)
	if err != nil {
		return nil, err
	}
	s.publish("cart.quantity_updated", CartQuantityUpdated{UserID: userID, ProductID: productID, Quantity: quantity})
	return saved, nil
}

// DeleteCart removes the aggregate outright, returning its prior
// contents, or (nil, nil) if the user had no cart.
func (s *CartService) DeleteCart(ctx context.Context, userID string) (*Cart, error) {
	cart, err := s.store.Delete(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		s.publish("cart.deleted", CartDeleted{UserID: userID})
	}
	return cart, nil
}

func (s *CartService) publish(eventType string, payload any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.Publish(eventType, payload)
}

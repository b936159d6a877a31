package payment

// Confirm moves a pending payment to completed. There is no way back.
func (p *Payment) Confirm() error {
	if p.Status != StatusPending {
		return ErrNotPending
	}
	p.Status = StatusCompleted
	return nil
}

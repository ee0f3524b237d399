package services

// ServiceContainer bundles all service facades for injection into the
// handler layer.
type ServiceContainer struct {
	User         UserSvcFacade
	Auth         AuthSvcFacade
	Token        TokenSvcFacade
	Video        VideoSvcFacade
	Subscription SubscriptionSvcFacade
	Media        MediaUploaderSvc
}

package services

// Services defined in this package:
// - AuthService: signup, email confirmation, login and password resets
// - EventService: event catalog and team registration
// - UserService: user profiles and the admin user listing
